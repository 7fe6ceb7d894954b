package evaluator

// Question pairs the fixed title shown in the prompt with the analytical
// template applied to the founder's answer. The template carries a single
// {answer} placeholder.
type Question struct {
	Title    string
	Template string
}

// Questions returns the ten fixed validation questions in answer-slot order.
func Questions() [10]Question {
	return [10]Question{
		{
			Title: "Value Proposition Analysis",
			Template: `Analyze this value proposition critically: "{answer}".
- Is this genuinely innovative or just incremental improvement?
- What existing solutions does this compete with?
- Is the differentiation clear and defensible?
- Rate innovation level: 1-10 (be harsh, most ideas are 3-4/10)`,
		},
		{
			Title: "Competitive Advantage Assessment",
			Template: `Evaluate this competitive advantage: "{answer}".
- Is this truly defensible or easily copied?
- What barriers to entry exist?
- How long before competitors catch up?
- Rate defensibility: 1-10 (most advantages are temporary)`,
		},
		{
			Title: "Customer Persona Validation",
			Template: `Assess this customer description: "{answer}".
- Is the persona specific enough or too broad?
- Are pain points validated or assumed?
- What's the total addressable market size?
- Rate market clarity: 1-10 (be realistic about market size)`,
		},
		{
			Title: "Market Timing Analysis",
			Template: `Evaluate market timing: "{answer}".
- Is this trend real or hype?
- What evidence supports "why now"?
- Are there regulatory/economic headwinds?
- Rate timing: 1-10 (most timing claims are weak)`,
		},
		{
			Title: "Problem-Solution Fit",
			Template: `Analyze this problem statement: "{answer}".
- Is this a real pain or nice-to-have?
- How painful is it on a 1-10 scale?
- Do people currently pay to solve this?
- Rate problem severity: 1-10 (be critical)`,
		},
		{
			Title: "Risk Assessment",
			Template: `Evaluate these risks: "{answer}".
- Are major risks identified or ignored?
- What could kill this business?
- How likely are these risks?
- Rate risk awareness: 1-10 (most founders underestimate risks)`,
		},
		{
			Title: "Customer Dependency Analysis",
			Template: `Assess customer dependency: "{answer}".
- Would customers actually miss this?
- What's the switching cost?
- How sticky is the solution?
- Rate customer stickiness: 1-10 (be realistic)`,
		},
		{
			Title: "Monetization Model",
			Template: `Evaluate monetization: "{answer}".
- Is the revenue model clear and proven?
- Will customers actually pay this amount?
- What's the unit economics?
- Rate monetization clarity: 1-10 (most models are unclear)`,
		},
		{
			Title: "Vision & Scalability",
			Template: `Assess long-term vision: "{answer}".
- Is the vision realistic or fantasy?
- What's the path to scale?
- Are there natural expansion opportunities?
- Rate vision clarity: 1-10 (be harsh on unrealistic visions)`,
		},
		{
			Title: "Founder-Market Fit",
			Template: `Evaluate founder fit: "{answer}".
- Does the founder have relevant experience?
- Do they have the right network?
- Can they execute on this vision?
- Rate founder-market fit: 1-10 (be critical)`,
		},
	}
}
