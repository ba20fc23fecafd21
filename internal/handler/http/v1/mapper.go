package v1

import "github.com/shenikar/incident_intake/internal/models"

// ResultToProcessResponse преобразует результат оркестратора в DTO ответа
func ResultToProcessResponse(result *models.ProcessResult) ProcessTextResponse {
	return ProcessTextResponse{
		JSON:     result.Record,
		Readable: result.Readable,
	}
}

// ModelToRequestResponse преобразует сохранённый запрос в DTO
func ModelToRequestResponse(model *models.Request) *RequestResponse {
	return &RequestResponse{
		ID:        model.ID,
		Text:      model.Text,
		Response:  ResultToProcessResponse(&model.Response),
		Complete:  model.Complete,
		CreatedAt: model.CreatedAt,
	}
}

// ModelsToRequestResponses преобразует слайс моделей в слайс DTO
func ModelsToRequestResponses(models []*models.Request) []*RequestResponse {
	responses := make([]*RequestResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToRequestResponse(model)
	}
	return responses
}
