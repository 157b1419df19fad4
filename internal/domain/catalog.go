// Package domain contains core business types and interfaces.
//
// This file holds the static questionnaire catalogs: the standard feature
// list and the technology options shown per category. These are presentation
// inputs; the estimator accepts any names and defaults unknown technologies
// to a neutral multiplier.
package domain

// FeatureCategory groups related standard features.
type FeatureCategory struct {
	Name     string   `json:"name"`
	Features []string `json:"features"`
}

// FeatureCatalog is the fixed catalog of standard features.
var FeatureCatalog = []FeatureCategory{
	{
		Name: "User Management",
		Features: []string{
			"User Registration/Login",
			"User Profiles",
			"Role-based Access Control",
			"Social Login Integration",
			"Password Reset",
		},
	},
	{
		Name: "Content & Data",
		Features: []string{
			"Content Management System",
			"File Upload/Storage",
			"Search Functionality",
			"Data Visualization",
			"Filtering & Sorting",
			"Export to CSV/PDF",
		},
	},
	{
		Name: "E-commerce",
		Features: []string{
			"Product Catalog",
			"Shopping Cart",
			"Payment Processing",
			"Order Management",
			"Inventory Management",
			"Discount/Promo Codes",
		},
	},
	{
		Name: "Communication",
		Features: []string{
			"Messaging/Chat",
			"Email Notifications",
			"Push Notifications",
			"Comments/Reviews",
			"Contact Forms",
		},
	},
	{
		Name: "Integration",
		Features: []string{
			"Third-party API Integration",
			"Payment Gateway",
			"Analytics Integration",
			"Social Media Integration",
			"Calendar Integration",
		},
	},
}

// Technology options per questionnaire category.
var (
	FrontendOptions = []string{"React", "Angular", "Vue", "Next.js", "Plain HTML/CSS/JS"}

	BackendOptions = []string{"Node.js", "Python", "Ruby on Rails", "PHP", "Java", ".NET", "Go"}

	DatabaseOptions = []string{"MongoDB", "PostgreSQL", "MySQL", "Firebase", "SQL Server"}

	HostingOptions = []string{"AWS", "Google Cloud", "Microsoft Azure", "Heroku", "Vercel", "Netlify", "Digital Ocean"}

	AdditionalServiceOptions = []string{
		"Authentication Service",
		"Payment Processing",
		"Email Service",
		"File Storage",
		"CDN",
		"Search Service",
		"Analytics",
		"Monitoring",
	}
)
