package echoportal

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo-portal/core/nav"
	"github.com/trezcool/masomo-portal/core/registry"
	"github.com/trezcool/masomo-portal/core/session"
)

// paymentSections are the menu entries showing the payments page.
var paymentSections = []string{"/admin/payments", "/accountant/payments"}

type (
	stat struct {
		Key   string
		Value interface{}
	}

	dashboardData struct {
		Stats     []stat
		Shortcuts []nav.MenuItem
		Alert     string
	}
)

func (s *Server) registerDashboards() {
	for _, role := range session.Roles() {
		home := nav.Home(role)
		s.app.GET(home, s.dashboard(home))
	}
}

func (s *Server) dashboard(home string) echo.HandlerFunc {
	endpoint, hasStats := registry.Dashboards[home]
	return func(c echo.Context) error {
		sess, _ := contextSession(c)
		data := dashboardData{Shortcuts: nav.Menu(session.CurrentRole(&sess))[1:]}

		if hasStats {
			stats, err := s.BackendFor(sess).Stats(c.Request().Context(), endpoint)
			if err != nil {
				msg, herr := s.backendAlert(c, err)
				if herr != nil {
					return herr
				}
				data.Alert = msg
			}
			for k, v := range stats {
				data.Stats = append(data.Stats, stat{Key: k, Value: v})
			}
			sort.Slice(data.Stats, func(i, j int) bool { return data.Stats[i].Key < data.Stats[j].Key })
		}
		return s.render(c, http.StatusOK, "dashboard", "Dashboard", data)
	}
}
