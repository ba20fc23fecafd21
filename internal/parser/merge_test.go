package parser

import (
	"testing"

	"github.com/shenikar/incident_intake/internal/models"
	"github.com/stretchr/testify/assert"
)

func boolPtr(v bool) *bool { return &v }
func strPtr(v string) *string { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestMergePartialData_NoPrevious(t *testing.T) {
	incoming := models.IncidentRecord{
		Date:        "2025-03-15",
		Location:    "Av. Corrientes 1234",
		Description: "choque leve",
		Injuries:    boolPtr(true),
		Owner:       true,
	}

	assert.Equal(t, incoming, MergePartialData(nil, incoming))
}

func TestMergePartialData_KeepsKnownFacts(t *testing.T) {
	previous := &models.IncidentRecord{
		Date:        "2025-01-01",
		Location:    "Av. Siempre Viva",
		Description: "choque leve",
		Injuries:    boolPtr(true),
	}

	merged := MergePartialData(previous, models.IncidentRecord{})

	assert.Equal(t, "2025-01-01", merged.Date)
	assert.Equal(t, "Av. Siempre Viva", merged.Location)
	assert.Equal(t, "choque leve", merged.Description)
	// Пропущенный флаг не стирает ранее известное "true"
	assert.True(t, merged.HasInjuries())
}

func TestMergePartialData_OverwritesWithNewFacts(t *testing.T) {
	previous := &models.IncidentRecord{Date: "2025-01-01", Location: "Centro", Injuries: boolPtr(true)}

	merged := MergePartialData(previous, models.IncidentRecord{
		Date:     "2025-02-02",
		Location: "Palermo",
		Injuries: boolPtr(false),
	})

	assert.Equal(t, "2025-02-02", merged.Date)
	assert.Equal(t, "Palermo", merged.Location)
	assert.False(t, merged.HasInjuries())
	assert.NotNil(t, merged.Injuries)
}

func TestMergePartialData_DerivedFieldsAlwaysReplaced(t *testing.T) {
	previous := &models.IncidentRecord{Owner: true, Complete: true, Question: "vieja"}

	merged := MergePartialData(previous, models.IncidentRecord{Owner: false, Complete: false, Question: ""})

	assert.False(t, merged.Owner)
	assert.False(t, merged.Complete)
	assert.Empty(t, merged.Question)
}

func TestMergePartialData_ConversationalResponse(t *testing.T) {
	previous := &models.IncidentRecord{ConversationalResponse: strPtr("Lamento lo ocurrido.")}

	kept := MergePartialData(previous, models.IncidentRecord{})
	assert.Equal(t, "Lamento lo ocurrido.", *kept.ConversationalResponse)

	replaced := MergePartialData(previous, models.IncidentRecord{ConversationalResponse: strPtr("Gracias por los datos.")})
	assert.Equal(t, "Gracias por los datos.", *replaced.ConversationalResponse)
}

func TestMergePartialData_GeocodingFollowsLocation(t *testing.T) {
	previous := &models.IncidentRecord{
		Location:  "Obelisco",
		Latitude:  floatPtr(-34.6037),
		Longitude: floatPtr(-58.3816),
		City:      strPtr("Buenos Aires"),
	}

	// Место не упомянуто - координаты сохраняются
	kept := MergePartialData(previous, models.IncidentRecord{Description: "robo"})
	assert.True(t, kept.HasGeocoding())
	assert.Equal(t, "Buenos Aires", *kept.City)

	// Новое место без геокодирования - старые координаты не переносятся
	moved := MergePartialData(previous, models.IncidentRecord{Location: "Ruta 2 km 40"})
	assert.Equal(t, "Ruta 2 km 40", moved.Location)
	assert.False(t, moved.HasGeocoding())
	assert.Nil(t, moved.City)
}

func TestMergePartialData_DoesNotMutatePrevious(t *testing.T) {
	previous := &models.IncidentRecord{Date: "2025-01-01"}

	_ = MergePartialData(previous, models.IncidentRecord{Date: "2025-02-02"})

	assert.Equal(t, "2025-01-01", previous.Date)
}
