package parser

import "github.com/shenikar/incident_intake/internal/models"

// MergePartialData накладывает новую частичную запись на предыдущую.
// Фактические поля (дата, место, описание, пострадавшие) накапливаются между репликами,
// а производные поля всегда берутся из последней реплики.
func MergePartialData(previous *models.IncidentRecord, incoming models.IncidentRecord) models.IncidentRecord {
	if previous == nil {
		return incoming
	}

	merged := *previous

	if incoming.Date != "" {
		merged.Date = incoming.Date
	}
	if incoming.Location != "" {
		merged.Location = incoming.Location
		// Координаты относятся к месту, поэтому заменяются вместе с ним
		merged.Latitude = incoming.Latitude
		merged.Longitude = incoming.Longitude
		merged.City = incoming.City
		merged.Region = incoming.Region
	}
	if incoming.Description != "" {
		merged.Description = incoming.Description
	}
	if incoming.Injuries != nil {
		merged.Injuries = incoming.Injuries
	}
	merged.Owner = incoming.Owner
	merged.Complete = incoming.Complete
	merged.Question = incoming.Question
	if incoming.ConversationalResponse != nil {
		merged.ConversationalResponse = incoming.ConversationalResponse
	}

	return merged
}
