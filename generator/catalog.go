package generator

import "github.com/shopspring/decimal"

type product struct {
	name  string
	price decimal.Decimal
}

type location struct {
	city  string
	state string
}

var sampleUsers = []User{
	{
		Name:       "Alice Johnson",
		Email:      "alice.johnson@example.com",
		Age:        32,
		Department: "Engineering",
		Skills:     []string{"Python", "MongoDB", "Kafka"},
		Salary:     95000,
		Active:     true,
	},
	{
		Name:       "Bob Wilson",
		Email:      "bob.wilson@example.com",
		Age:        28,
		Department: "Marketing",
		Skills:     []string{"SEO", "Content Marketing", "Analytics"},
		Salary:     65000,
		Active:     true,
	},
	{
		Name:       "Carol Davis",
		Email:      "carol.davis@example.com",
		Age:        35,
		Department: "Sales",
		Skills:     []string{"B2B Sales", "CRM", "Negotiation"},
		Salary:     75000,
		Active:     true,
	},
	{
		Name:       "David Brown",
		Email:      "david.brown@example.com",
		Age:        29,
		Department: "Engineering",
		Skills:     []string{"Java", "Spring Boot", "Docker"},
		Salary:     90000,
		Active:     true,
	},
	{
		Name:       "Eva Martinez",
		Email:      "eva.martinez@example.com",
		Age:        26,
		Department: "Design",
		Skills:     []string{"UI/UX", "Figma", "User Research"},
		Salary:     70000,
		Active:     true,
	},
}

var products = []product{
	{"Laptop Pro", decimal.RequireFromString("1299.99")},
	{"Wireless Mouse", decimal.RequireFromString("59.99")},
	{"Mechanical Keyboard", decimal.RequireFromString("149.99")},
	{"4K Monitor", decimal.RequireFromString("399.99")},
	{"USB-C Hub", decimal.RequireFromString("79.99")},
	{"Webcam HD", decimal.RequireFromString("89.99")},
	{"Desk Lamp", decimal.RequireFromString("45.99")},
	{"Standing Desk", decimal.RequireFromString("299.99")},
}

// Statuses is the set of order states a randomized order can be in.
var Statuses = []string{"pending", "processing", "shipped", "completed"}

var locations = []location{
	{"New York", "NY"},
	{"Los Angeles", "CA"},
	{"Chicago", "IL"},
	{"Houston", "TX"},
	{"Phoenix", "AZ"},
}

var bulkDepartments = []string{"Engineering", "Marketing", "Sales", "HR", "Finance"}

// CatalogSize is the number of users FixedUsers can return.
func CatalogSize() int {
	return len(sampleUsers)
}
