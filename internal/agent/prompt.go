package agent

import (
	"strings"

	"github.com/xinyuew3S2024/NewsByMood/models"
)

// ToolName is the declared name of the retrieval tool.
const ToolName = "SERPNewsAPI"

const toolDescription = "Fetches the latest news articles based on a given query. " +
	"Use this tool after determining the user's mood to retrieve tailored news."

// SystemPrompt returns the seed instruction for every conversation: the
// mood-elicitation question, the mood-to-category mapping, and the
// retrieve-and-reply protocol.
func SystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are a friendly, mood-sensitive news assistant. ")
	b.WriteString("Always start by asking: 'How has your day been so far?' ")
	b.WriteString("Then, based on the user's answer, analyze their mood and map it to a news category as follows: ")
	for i, m := range moodOrder {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(m))
		b.WriteString(" -> ")
		b.WriteString(string(moodCategories[m]))
		b.WriteString(" news")
	}
	b.WriteString(". Once the mood and corresponding category are determined, construct a query such as 'latest politics news' ")
	b.WriteString("and use the " + ToolName + " tool to fetch three recent news articles. ")
	b.WriteString("Respond in a friendly, conversational tone and conclude after delivering the news.")
	return b.String()
}

func toolSchema() models.ToolSchema {
	return models.ToolSchema{
		Name:        ToolName,
		Description: toolDescription,
		Moods:       Moods(),
	}
}
