package domain

// Category is one of the ten fixed labels an article may carry.
type Category struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	Description  string `json:"description"`
	ArticleCount int64  `json:"article_count"`
}

// Categories is the seeded vocabulary, in display order.
var Categories = []Category{
	{ID: 1, Name: "Humanoid Robots", Icon: "🤖", Description: "Human-like robots with bipedal locomotion and anthropomorphic features"},
	{ID: 2, Name: "Drones & Aerial Systems", Icon: "🚁", Description: "Unmanned aerial vehicles and flying robotics platforms"},
	{ID: 3, Name: "Industrial Automation", Icon: "🏭", Description: "Manufacturing robots, robotic arms, and factory automation systems"},
	{ID: 4, Name: "AGVs & AMRs", Icon: "📦", Description: "Autonomous Guided Vehicles and Autonomous Mobile Robots for logistics"},
	{ID: 5, Name: "AI & Software", Icon: "🧠", Description: "Artificial intelligence, machine learning, and robotics software platforms"},
	{ID: 6, Name: "Research & Academia", Icon: "🔬", Description: "Academic research, university projects, and scientific breakthroughs"},
	{ID: 7, Name: "Business & Funding", Icon: "💰", Description: "Investment rounds, acquisitions, IPOs, and financial news"},
	{ID: 8, Name: "Healthcare Robotics", Icon: "⚕️", Description: "Medical robots, surgical systems, and healthcare automation"},
	{ID: 9, Name: "Agricultural Robotics", Icon: "🌾", Description: "Farming automation, crop monitoring, and agricultural robots"},
	{ID: 10, Name: "Consumer Robotics", Icon: "🏠", Description: "Home robots, entertainment bots, and consumer-facing products"},
}

// CategoryNames returns the vocabulary names.
func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = c.Name
	}
	return names
}
