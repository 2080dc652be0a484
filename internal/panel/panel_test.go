package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/couchcryptid/terranova-dashboard/internal/domain"
)

func newTestRenderer() *Renderer {
	return NewRenderer(language.AmericanEnglish)
}

func testScenario() domain.Scenario {
	return domain.Scenario{
		Fire:     domain.Fire{ID: "camp-fire-2018", Name: "Camp Fire", State: "CA", Acres: 153336},
		Timeline: domain.StageAt(2),
		Priorities: []domain.Priority{
			{Label: "Community safety", Score: 70.4, Summary: "Focus on structures and evacuation corridors."},
			{Label: "Watershed health", Score: 54.5},
		},
		Insights: []domain.Insight{{Category: "Action", Title: "Crew routing", Detail: "Assign crews."}},
		NextSteps: []string{"Step one", "Step two"},
		Stats: domain.Stats{
			Confidence: 0.876,
			Incidents:  1204,
			Updated:    "Paradise & Magalia · Updated 12 mins ago",
			Acres:      153336,
		},
		MapTip: "Initial assessment (Day 7) · First MTBS-inspired burn severity mapping",
	}
}

func TestRender_Header(t *testing.T) {
	r := newTestRenderer()
	r.Render(testScenario())
	v := r.View()

	assert.Equal(t, "Camp Fire · CA", v.FireTitle)
	assert.Equal(t, "Camp Fire segmentation ready", v.MapHeadline)
	assert.Equal(t, "Initial assessment (Day 7)", v.MapSubhead)
}

func TestRender_HeaderDefaults(t *testing.T) {
	r := newTestRenderer()
	r.Render(domain.Scenario{})
	v := r.View()

	assert.Equal(t, "Selected fire · ", v.FireTitle)
	assert.Equal(t, "Fire segmentation ready", v.MapHeadline)
	assert.Equal(t, DefaultMapTip, v.MapTip, "empty tip keeps the previous one")
}

func TestRender_StatsFormatting(t *testing.T) {
	r := newTestRenderer()
	r.Render(testScenario())
	v := r.View()

	assert.Equal(t, "88%", v.Confidence)
	assert.Equal(t, "1,204 alerts", v.Incidents)
	assert.Equal(t, "Paradise & Magalia · Updated 12 mins ago · 153,336 acres", v.FireMeta)
}

func TestRender_PriorityCards(t *testing.T) {
	r := newTestRenderer()
	r.Render(testScenario())
	v := r.View()

	require.Len(t, v.Priorities, 2)
	assert.Equal(t, "Community safety · 70%", v.Priorities[0].Heading)
	assert.Equal(t, "Focus on structures and evacuation corridors.", v.Priorities[0].Summary)
	assert.Equal(t, "Watershed health · 55%", v.Priorities[1].Heading)
	assert.Empty(t, v.PrioritiesPlaceholder)
}

func TestRender_EmptyListsUsePlaceholders(t *testing.T) {
	r := newTestRenderer()
	r.Render(testScenario())

	s := testScenario()
	s.Priorities = nil
	s.Insights = []domain.Insight{}
	s.NextSteps = nil
	r.Render(s)
	v := r.View()

	assert.Empty(t, v.Priorities)
	assert.Equal(t, NoPriorities, v.PrioritiesPlaceholder)

	require.Len(t, v.Insights, 1)
	assert.Equal(t, InsightCard{Category: "No insights", Title: "All clear for now.", Detail: "Adjust the sliders to refresh the model."}, v.Insights[0])

	assert.Empty(t, v.NextSteps)
	assert.Equal(t, NoNextSteps, v.NextStepsPlaceholder)
}

func TestRender_ReplacesWholesale(t *testing.T) {
	r := newTestRenderer()
	r.Render(testScenario())

	s := testScenario()
	s.NextSteps = []string{"Only step"}
	r.Render(s)
	v := r.View()

	assert.Equal(t, []string{"Only step"}, v.NextSteps)
	assert.Empty(t, v.NextStepsPlaceholder)
}

func TestRender_Idempotent(t *testing.T) {
	r := newTestRenderer()
	r.Render(testScenario())
	first := r.View()
	r.Render(testScenario())
	assert.Equal(t, first, r.View())
}

func TestRenderControls(t *testing.T) {
	r := newTestRenderer()
	r.RenderControls(domain.Selection{
		Timeline: 4,
		Weights:  domain.PriorityWeights{Community: 90, Watershed: 10, Infrastructure: 0},
	})
	v := r.View()

	assert.Equal(t, "90%", v.PriorityValues[string(domain.PriorityCommunity)])
	assert.Equal(t, "10%", v.PriorityValues[string(domain.PriorityWatershed)])
	assert.Equal(t, "0%", v.PriorityValues[string(domain.PriorityInfrastructure)])
	assert.Equal(t, "Recovery outlook (Year 1)", v.ForecastLabel)
	assert.Equal(t, "Predicted vegetation recovery and infrastructure repairs", v.ForecastDesc)
	assert.Equal(t, v.ForecastLabel, v.MapSubhead)
}

func TestRenderFireList(t *testing.T) {
	r := newTestRenderer()
	r.RenderFireList(domain.FallbackFires(), "bootleg-fire-2021")
	v := r.View()

	require.Len(t, v.FireList, 4)
	assert.Equal(t, FireCard{
		ID:    "camp-fire-2018",
		Name:  "Camp Fire",
		Meta:  "CA · 2018",
		Badge: "153,336 ac",
	}, v.FireList[0])
	assert.Equal(t, "963,309 ac", v.FireList[1].Badge)
	assert.True(t, v.FireList[2].Active)
	assert.Equal(t, "6,700 ac", v.FireList[3].Badge)
}

func TestViewIsACopy(t *testing.T) {
	r := newTestRenderer()
	r.Render(testScenario())
	v := r.View()
	v.NextSteps[0] = "mutated"
	assert.Equal(t, "Step one", r.View().NextSteps[0])
}

func TestSetMapTipAndAnswer(t *testing.T) {
	r := newTestRenderer()
	r.SetMapTip("Burn severity layer disabled.")
	r.SetAnswer("No answer available.")
	v := r.View()
	assert.Equal(t, "Burn severity layer disabled.", v.MapTip)
	assert.Equal(t, "No answer available.", v.Answer)
}
