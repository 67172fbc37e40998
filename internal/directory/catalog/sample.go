package catalog

import "github.com/gartstein/directory/internal/directory/models"

var sampleCompanies = []models.Company{
	{ID: 1, Name: "TechCorp Solutions", Industry: "Technology", Location: "Bangalore, Karnataka", Employees: 250, Founded: 2015, Revenue: "$50M", Description: "Leading provider of enterprise software solutions"},
	{ID: 2, Name: "GreenEnergy Inc", Industry: "Energy", Location: "Hyderabad, Telangana", Employees: 180, Founded: 2012, Revenue: "$30M", Description: "Renewable energy solutions and solar panel manufacturing"},
	{ID: 3, Name: "HealthTech Innovations", Industry: "Healthcare", Location: "Chennai, Tamil Nadu", Employees: 320, Founded: 2018, Revenue: "$75M", Description: "Digital health platforms and telemedicine solutions"},
	{ID: 4, Name: "FinanceFlow Systems", Industry: "Finance", Location: "Mumbai, Maharashtra", Employees: 450, Founded: 2010, Revenue: "$120M", Description: "Financial technology and payment processing solutions"},
	{ID: 5, Name: "EduTech Academy", Industry: "Education", Location: "Pune, Maharashtra", Employees: 95, Founded: 2019, Revenue: "$15M", Description: "Online learning platforms and educational technology"},
	{ID: 6, Name: "RetailMax Corp", Industry: "Retail", Location: "Delhi, NCR", Employees: 600, Founded: 2008, Revenue: "$200M", Description: "E-commerce solutions and retail management systems"},
	{ID: 7, Name: "AutoDrive Technologies", Industry: "Automotive", Location: "Gurugram, Haryana", Employees: 280, Founded: 2016, Revenue: "$45M", Description: "Autonomous vehicle technology and smart transportation"},
	{ID: 8, Name: "FoodTech Solutions", Industry: "Food & Beverage", Location: "Kolkata, West Bengal", Employees: 150, Founded: 2017, Revenue: "$25M", Description: "Food delivery platforms and restaurant management systems"},
	{ID: 9, Name: "MediaStream Inc", Industry: "Media", Location: "Ahmedabad, Gujarat", Employees: 200, Founded: 2014, Revenue: "$40M", Description: "Streaming platforms and digital content distribution"},
	{ID: 10, Name: "LogiTech Global", Industry: "Logistics", Location: "Jaipur, Rajasthan", Employees: 350, Founded: 2011, Revenue: "$80M", Description: "Supply chain management and logistics optimization"},
	{ID: 11, Name: "RealEstate Pro", Industry: "Real Estate", Location: "Chandigarh, Punjab", Employees: 120, Founded: 2013, Revenue: "$20M", Description: "Property management and real estate technology platforms"},
	{ID: 12, Name: "TravelTech Adventures", Industry: "Travel", Location: "Kochi, Kerala", Employees: 180, Founded: 2016, Revenue: "$35M", Description: "Travel booking platforms and tourism technology solutions"},
}

// Sample returns a copy of the built-in 12-company catalog.
func Sample() []models.Company {
	out := make([]models.Company, len(sampleCompanies))
	copy(out, sampleCompanies)
	return out
}
