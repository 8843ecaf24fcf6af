package registry

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/trezcool/masomo-portal/core"
)

const requiredText = "this field is required"

// Body builds the create payload from submitted form values.
// Required fields are checked first; nothing is sent when one is missing.
func (res *Resource) Body(form url.Values) (map[string]interface{}, error) {
	body := make(map[string]interface{}, len(res.Fields))
	var flds []core.FieldError

	for _, f := range res.Fields {
		val := strings.TrimSpace(form.Get(f.Name))
		if val == "" {
			if f.Required {
				flds = append(flds, core.FieldError{Field: f.Name, Error: requiredText})
			}
			continue
		}

		switch f.Type {
		case "number":
			n, err := strconv.ParseFloat(val, 64)
			if err != nil {
				flds = append(flds, core.FieldError{Field: f.Name, Error: "enter a number"})
				continue
			}
			body[f.Name] = n
		case "select":
			if !contains(f.Options, val) {
				flds = append(flds, core.FieldError{Field: f.Name, Error: "choose a valid option"})
				continue
			}
			body[f.Name] = val
		case "checkbox":
			body[f.Name] = val == "on" || val == "true"
		default:
			body[f.Name] = val
		}
	}

	if len(flds) > 0 {
		return nil, core.NewValidationError(nil, flds...)
	}
	return body, nil
}

func contains(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}
