package registry

var audienceOptions = []string{"all", "students", "teachers", "parents"}

var (
	Students = &Resource{
		Name:     "students",
		Title:    "Students",
		Endpoint: "/academics/students/",
		Columns: []Column{
			{Key: "student_number", Label: "Student No."},
			{Key: "full_name", Label: "Name"},
			{Key: "class_name", Label: "Class"},
			{Key: "gender", Label: "Gender"},
			{Key: "date_of_birth", Label: "Date of Birth", Kind: Date},
		},
		Fields: []Field{
			{Name: "first_name", Label: "First name", Type: "text", Required: true},
			{Name: "last_name", Label: "Last name", Type: "text", Required: true},
			{Name: "email", Label: "Email", Type: "email"},
			{Name: "class_id", Label: "Class ID", Type: "number", Required: true},
			{Name: "gender", Label: "Gender", Type: "select", Options: []string{"male", "female"}},
			{Name: "date_of_birth", Label: "Date of birth", Type: "date"},
		},
		DeletePath: detailPath("/academics/students/"),
	}

	Teachers = &Resource{
		Name:     "teachers",
		Title:    "Teachers",
		Endpoint: "/academics/teachers/",
		Columns: []Column{
			{Key: "employee_number", Label: "Employee No."},
			{Key: "full_name", Label: "Name"},
			{Key: "email", Label: "Email"},
			{Key: "phone_number", Label: "Phone"},
			{Key: "subjects", Label: "Subjects"},
		},
		Fields: []Field{
			{Name: "first_name", Label: "First name", Type: "text", Required: true},
			{Name: "last_name", Label: "Last name", Type: "text", Required: true},
			{Name: "email", Label: "Email", Type: "email", Required: true},
			{Name: "phone_number", Label: "Phone", Type: "tel"},
		},
		DeletePath: detailPath("/academics/teachers/"),
	}

	Parents = &Resource{
		Name:     "parents",
		Title:    "Parents",
		Endpoint: "/academics/parents/",
		Columns: []Column{
			{Key: "full_name", Label: "Name"},
			{Key: "email", Label: "Email"},
			{Key: "phone_number", Label: "Phone"},
			{Key: "children", Label: "Children"},
		},
		Fields: []Field{
			{Name: "first_name", Label: "First name", Type: "text", Required: true},
			{Name: "last_name", Label: "Last name", Type: "text", Required: true},
			{Name: "email", Label: "Email", Type: "email", Required: true},
			{Name: "phone_number", Label: "Phone", Type: "tel"},
		},
	}

	Classes = &Resource{
		Name:     "classes",
		Title:    "Classes",
		Endpoint: "/academics/classes/",
		Columns: []Column{
			{Key: "name", Label: "Class"},
			{Key: "grade_level", Label: "Grade", Kind: Number},
			{Key: "class_teacher", Label: "Class Teacher"},
			{Key: "student_count", Label: "Students", Kind: Number},
		},
		Fields: []Field{
			{Name: "name", Label: "Name", Type: "text", Required: true},
			{Name: "grade_level", Label: "Grade level", Type: "number", Required: true},
			{Name: "capacity", Label: "Capacity", Type: "number"},
		},
	}

	Subjects = &Resource{
		Name:     "subjects",
		Title:    "Subjects",
		Endpoint: "/academics/subjects/",
		Columns: []Column{
			{Key: "code", Label: "Code"},
			{Key: "name", Label: "Subject"},
			{Key: "description", Label: "Description"},
		},
		Fields: []Field{
			{Name: "code", Label: "Code", Type: "text", Required: true},
			{Name: "name", Label: "Name", Type: "text", Required: true},
			{Name: "description", Label: "Description", Type: "textarea"},
		},
	}

	Results = &Resource{
		Name:     "results",
		Title:    "Results",
		Endpoint: "/academics/results/",
		Columns: []Column{
			{Key: "student_name", Label: "Student"},
			{Key: "subject_name", Label: "Subject"},
			{Key: "score", Label: "Score", Kind: Number},
			{Key: "grade", Label: "Grade"},
			{Key: "term", Label: "Term"},
		},
		Fields: []Field{
			{Name: "student", Label: "Student ID", Type: "number", Required: true},
			{Name: "subject", Label: "Subject ID", Type: "number", Required: true},
			{Name: "score", Label: "Score", Type: "number", Required: true},
			{Name: "term", Label: "Term", Type: "select", Required: true, Options: []string{"Term 1", "Term 2", "Term 3"}},
		},
	}

	Timetable = &Resource{
		Name:     "timetable",
		Title:    "Timetable",
		Endpoint: "/academics/timetables/",
		Columns: []Column{
			{Key: "class_name", Label: "Class"},
			{Key: "day", Label: "Day"},
			{Key: "start_time", Label: "Start"},
			{Key: "end_time", Label: "End"},
			{Key: "subject_name", Label: "Subject"},
			{Key: "teacher_name", Label: "Teacher"},
		},
	}

	Announcements = &Resource{
		Name:     "announcements",
		Title:    "Announcements",
		Endpoint: "/academics/announcements/",
		Columns: []Column{
			{Key: "title", Label: "Title"},
			{Key: "content", Label: "Message", Kind: Markdown},
			{Key: "audience", Label: "Audience"},
			{Key: "created_at", Label: "Posted", Kind: Date},
		},
		Fields: []Field{
			{Name: "title", Label: "Title", Type: "text", Required: true},
			{Name: "content", Label: "Message (Markdown)", Type: "textarea", Required: true},
			{Name: "audience", Label: "Audience", Type: "select", Required: true, Options: audienceOptions},
		},
		DeletePath: detailPath("/academics/announcements/"),
	}

	Complaints = &Resource{
		Name:     "complaints",
		Title:    "Complaints",
		Endpoint: "/academics/complaints/",
		Columns: []Column{
			{Key: "subject", Label: "Subject"},
			{Key: "description", Label: "Details", Kind: Markdown},
			{Key: "status", Label: "Status"},
			{Key: "created_at", Label: "Received", Kind: Date},
		},
	}

	Users = &Resource{
		Name:     "users",
		Title:    "Users",
		Endpoint: "/auth/users/",
		Columns: []Column{
			{Key: "username", Label: "Username"},
			{Key: "email", Label: "Email"},
			{Key: "role", Label: "Role"},
			{Key: "is_active", Label: "Active", Kind: Bool},
			{Key: "date_joined", Label: "Joined", Kind: Date},
		},
		DeletePath: func(id string) string { return "/auth/users/" + id + "/delete/" },
	}

	Invoices = &Resource{
		Name:     "invoices",
		Title:    "Invoices",
		Endpoint: "/finances/invoices/",
		Columns: []Column{
			{Key: "invoice_number", Label: "Invoice"},
			{Key: "student_name", Label: "Student"},
			{Key: "total_amount", Label: "Total", Kind: Money},
			{Key: "amount_paid", Label: "Paid", Kind: Money},
			{Key: "balance", Label: "Balance", Kind: Money},
			{Key: "due_date", Label: "Due", Kind: Date},
			{Key: "is_paid", Label: "Paid in full", Kind: Bool},
		},
		ReceiptLinks: true,
	}

	Fees = &Resource{
		Name:     "fees",
		Title:    "School Fees",
		Endpoint: "/finances/student-fees/",
		Columns: []Column{
			{Key: "fee_type_name", Label: "Fee"},
			{Key: "academic_term", Label: "Term"},
			{Key: "amount_due", Label: "Due", Kind: Money},
			{Key: "amount_paid", Label: "Paid", Kind: Money},
			{Key: "balance", Label: "Balance", Kind: Money},
			{Key: "due_date", Label: "Due Date", Kind: Date},
			{Key: "is_paid", Label: "Paid in full", Kind: Bool},
		},
	}

	Children = &Resource{
		Name:     "children",
		Title:    "My Children",
		Endpoint: "/parents/children/",
		Columns: []Column{
			{Key: "full_name", Label: "Name"},
			{Key: "student_number", Label: "Student No."},
			{Key: "class_name", Label: "Class"},
		},
	}

	StudentMarks = &Resource{
		Name:     "marks",
		Title:    "My Results",
		Endpoint: "/students/marks/",
		Columns: []Column{
			{Key: "subject", Label: "Subject"},
			{Key: "score", Label: "Score", Kind: Number},
			{Key: "grade", Label: "Grade"},
			{Key: "term", Label: "Term"},
		},
	}

	StudentTimetable = &Resource{
		Name:     "timetable",
		Title:    "My Timetable",
		Endpoint: "/students/timetable/",
		Columns:  Timetable.Columns[1:],
	}

	StudentAnnouncements = &Resource{
		Name:     "announcements",
		Title:    "Announcements",
		Endpoint: "/students/announcements/",
		Columns:  Announcements.Columns[:2],
	}
)

// Bindings maps portal sections to the resources they list.
var Bindings = map[string]Binding{
	"/admin/students":      {Resource: Students, Writable: true},
	"/admin/teachers":      {Resource: Teachers, Writable: true},
	"/admin/parents":       {Resource: Parents, Writable: true},
	"/admin/classes":       {Resource: Classes, Writable: true},
	"/admin/timetable":     {Resource: Timetable},
	"/admin/subjects":      {Resource: Subjects, Writable: true},
	"/admin/results":       {Resource: Results, Writable: true},
	"/admin/invoices":      {Resource: Invoices},
	"/admin/announcements": {Resource: Announcements, Writable: true},
	"/admin/complaints":    {Resource: Complaints},
	"/admin/users":         {Resource: Users, Writable: true},

	"/teacher/classes":       {Resource: Classes},
	"/teacher/students":      {Resource: Students},
	"/teacher/results":       {Resource: Results, Writable: true},
	"/teacher/announcements": {Resource: Announcements},

	"/student/results":       {Resource: StudentMarks},
	"/student/timetable":     {Resource: StudentTimetable},
	"/student/announcements": {Resource: StudentAnnouncements},
	"/student/fees":          {Resource: Fees},

	"/parent/children":      {Resource: Children},
	"/parent/results":       {Resource: Results},
	"/parent/announcements": {Resource: Announcements},
	"/parent/fees":          {Resource: Fees},

	"/accountant/invoices": {Resource: Invoices},

	"/hr/teachers": {Resource: Teachers, Writable: true},
	"/hr/users":    {Resource: Users},
}

// Dashboards maps role home pages to the backend stats they show, if any.
var Dashboards = map[string]string{
	"/admin":   "/auth/dashboard/stats/",
	"/student": "/students/dashboard/stats/",
}
