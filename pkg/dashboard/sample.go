package dashboard

import "github.com/matzehuels/widgetshare/pkg/widget"

// Sample returns the built-in demo dashboard: an employee table and a
// monthly sales bar chart.
func Sample() *Dashboard {
	employees := &Widget{
		ID:    "employee-table",
		Title: "Employee Data",
		Kind:  widget.KindTable.String(),
		kind:  widget.KindTable,
		Columns: []widget.Column{
			{Key: "id", Title: "Employee ID", DataIndex: "id", Width: 120},
			{Key: "name", Title: "Name", DataIndex: "name", Width: 150},
			{Key: "department", Title: "Department", DataIndex: "department", Width: 130},
			{Key: "position", Title: "Position", DataIndex: "position", Width: 160},
			{Key: "salary", Title: "Salary", DataIndex: "salary", Width: 110, Align: widget.AlignRight},
			{Key: "experience", Title: "Experience", DataIndex: "experience", Width: 120},
			{Key: "status", Title: "Status", DataIndex: "status", Width: 100},
		},
		Rows: []widget.Row{
			employee("EMP001", "John Doe", "Engineering", "Senior Developer", "$95,000", "8 years"),
			employee("EMP002", "Jane Smith", "Marketing", "Marketing Manager", "$85,000", "6 years"),
			employee("EMP003", "Bob Johnson", "Sales", "Sales Executive", "$70,000", "4 years"),
			employee("EMP004", "Alice Williams", "Engineering", "Tech Lead", "$110,000", "10 years"),
			employee("EMP005", "Charlie Brown", "HR", "HR Specialist", "$65,000", "5 years"),
			employee("EMP006", "Diana Prince", "Finance", "Financial Analyst", "$80,000", "7 years"),
			employee("EMP007", "Ethan Hunt", "Operations", "Operations Manager", "$90,000", "9 years"),
			employee("EMP008", "Fiona Green", "Engineering", "Junior Developer", "$55,000", "2 years"),
		},
	}

	sales := &Widget{
		ID:     "monthly-sales",
		Title:  "Monthly Sales Performance",
		Kind:   widget.KindGraph.String(),
		kind:   widget.KindGraph,
		Height: 350,
		Points: []widget.Point{
			{Name: "Jan", Value: 4200},
			{Name: "Feb", Value: 5100},
			{Name: "Mar", Value: 4800},
			{Name: "Apr", Value: 6200},
			{Name: "May", Value: 5800},
			{Name: "Jun", Value: 7100},
			{Name: "Jul", Value: 6800},
			{Name: "Aug", Value: 7500},
			{Name: "Sep", Value: 6900},
			{Name: "Oct", Value: 8200},
		},
	}

	return &Dashboard{Title: "Dashboard", Widgets: []*Widget{employees, sales}}
}

func employee(id, name, dept, position, salary, experience string) widget.Row {
	return widget.Row{
		"id":         id,
		"name":       name,
		"department": dept,
		"position":   position,
		"salary":     salary,
		"experience": experience,
		"status":     "Active",
	}
}
