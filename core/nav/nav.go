// Package nav maps portal roles to their menus and decides which role may open which page.
package nav

import (
	"sort"
	"strings"

	"github.com/trezcool/masomo-portal/core/session"
)

type (
	MenuItem struct {
		Path  string
		Label string
		Icon  string // font-awesome class
	}

	// Decision is the outcome of resolving a path for a role.
	Decision int

	route struct {
		prefix string
		exact  bool // dashboards only match themselves
		roles  map[session.Role]bool
	}
)

const (
	NotFound Decision = iota
	Forbidden
	Allowed
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Forbidden:
		return "forbidden"
	default:
		return "not found"
	}
}

var menuTable = [...][]MenuItem{
	session.RoleStudent: {
		{Path: "/student", Label: "Dashboard", Icon: "fa-home"},
		{Path: "/student/results", Label: "Results", Icon: "fa-chart-line"},
		{Path: "/student/timetable", Label: "Timetable", Icon: "fa-clock"},
		{Path: "/student/announcements", Label: "Announcements", Icon: "fa-bullhorn"},
		{Path: "/student/fees", Label: "Fees", Icon: "fa-credit-card"},
	},
	session.RoleParent: {
		{Path: "/parent", Label: "Dashboard", Icon: "fa-home"},
		{Path: "/parent/children", Label: "My Children", Icon: "fa-child"},
		{Path: "/parent/results", Label: "Results", Icon: "fa-chart-line"},
		{Path: "/parent/announcements", Label: "Announcements", Icon: "fa-bullhorn"},
		{Path: "/parent/fees", Label: "School Fees", Icon: "fa-credit-card"},
	},
	session.RoleTeacher: {
		{Path: "/teacher", Label: "Dashboard", Icon: "fa-home"},
		{Path: "/teacher/classes", Label: "Classes", Icon: "fa-school"},
		{Path: "/teacher/students", Label: "Students", Icon: "fa-user-graduate"},
		{Path: "/teacher/results", Label: "Results", Icon: "fa-pen-square"},
		{Path: "/teacher/announcements", Label: "Announcements", Icon: "fa-bullhorn"},
	},
	session.RoleAccountant: {
		{Path: "/accountant", Label: "Dashboard", Icon: "fa-home"},
		{Path: "/accountant/payments", Label: "Payments", Icon: "fa-money-bill"},
		{Path: "/accountant/invoices", Label: "Invoices", Icon: "fa-file-invoice"},
	},
	session.RoleHR: {
		{Path: "/hr", Label: "Dashboard", Icon: "fa-home"},
		{Path: "/hr/teachers", Label: "Teachers", Icon: "fa-chalkboard-teacher"},
		{Path: "/hr/users", Label: "Users", Icon: "fa-user-cog"},
	},
	session.RoleAdmin: {
		{Path: "/admin", Label: "Dashboard", Icon: "fa-home"},
		{Path: "/admin/students", Label: "Students", Icon: "fa-user-graduate"},
		{Path: "/admin/teachers", Label: "Teachers", Icon: "fa-chalkboard-teacher"},
		{Path: "/admin/parents", Label: "Parents", Icon: "fa-users"},
		{Path: "/admin/classes", Label: "Classes", Icon: "fa-school"},
		{Path: "/admin/timetable", Label: "Timetable", Icon: "fa-calendar-alt"},
		{Path: "/admin/subjects", Label: "Subjects", Icon: "fa-book"},
		{Path: "/admin/results", Label: "Results", Icon: "fa-chart-bar"},
		{Path: "/admin/invoices", Label: "Invoices", Icon: "fa-file-invoice"},
		{Path: "/admin/payments", Label: "Payments", Icon: "fa-money-bill"},
		{Path: "/admin/announcements", Label: "Announcements", Icon: "fa-bullhorn"},
		{Path: "/admin/complaints", Label: "Complaints", Icon: "fa-exclamation-circle"},
		{Path: "/admin/users", Label: "User Management", Icon: "fa-user-cog"},
	},
}

// adding a Role without a menu does not compile
var _ = [1]struct{}{}[len(menuTable)-session.NumRoles]

var routes = buildRoutes()

// buildRoutes registers every menu path for the roles whose menu lists it.
// The first item of each menu is the role's dashboard.
func buildRoutes() []route {
	byPrefix := make(map[string]*route)
	var order []string
	for r, items := range menuTable {
		for i, item := range items {
			rt, ok := byPrefix[item.Path]
			if !ok {
				rt = &route{prefix: item.Path, exact: i == 0, roles: make(map[session.Role]bool)}
				byPrefix[item.Path] = rt
				order = append(order, item.Path)
			}
			rt.roles[session.Role(r)] = true
		}
	}

	rts := make([]route, 0, len(order))
	for _, p := range order {
		rts = append(rts, *byPrefix[p])
	}
	// longest prefix first
	sort.SliceStable(rts, func(i, j int) bool { return len(rts[i].prefix) > len(rts[j].prefix) })
	return rts
}

// Menu returns the ordered menu of role.
// Anything outside the known roles gets the student menu, never a privileged one.
func Menu(role session.Role) []MenuItem {
	if !role.Valid() {
		role = session.RoleStudent
	}
	items := make([]MenuItem, len(menuTable[role]))
	copy(items, menuTable[role])
	return items
}

// Home is the landing page of role.
func Home(role session.Role) string {
	return Menu(role)[0].Path
}

func (rt route) matches(p string) bool {
	if p == rt.prefix {
		return true
	}
	return !rt.exact && strings.HasPrefix(p, rt.prefix+"/")
}

// Resolve decides whether role may open p.
// p belongs to the longest registered section it falls under at a segment boundary,
// so "/admin/payments/records/7" is governed by "/admin/payments".
func Resolve(role session.Role, p string) Decision {
	p = cleanPath(p)
	for _, rt := range routes {
		if rt.matches(p) {
			if rt.roles[role] {
				return Allowed
			}
			return Forbidden
		}
	}
	return NotFound
}

// Section returns the registered section p belongs to, if any.
func Section(p string) (string, bool) {
	p = cleanPath(p)
	for _, rt := range routes {
		if rt.matches(p) {
			return rt.prefix, true
		}
	}
	return "", false
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		p = "/"
	}
	return p
}
