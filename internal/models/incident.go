package models

// IncidentRecord - структурированные данные об инциденте, которые накапливаются между репликами диалога.
// Complete и Question вычисляются сервисом и не задаются клиентом.
type IncidentRecord struct {
	Date        string   `json:"date"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	City        *string  `json:"city,omitempty"`
	Region      *string  `json:"region,omitempty"`
	Description string   `json:"description"`
	// Injuries - указатель, чтобы отличать "не указано" от явного false
	Injuries               *bool   `json:"injuries,omitempty"`
	Owner                  bool    `json:"owner"`
	Complete               bool    `json:"complete"`
	Question               string  `json:"question"`
	ConversationalResponse *string `json:"conversationalResponse,omitempty"`
}

// HasInjuries возвращает true, только если наличие пострадавших явно подтверждено
func (r IncidentRecord) HasInjuries() bool {
	return r.Injuries != nil && *r.Injuries
}

// HasGeocoding сообщает, было ли местоположение обогащено координатами
func (r IncidentRecord) HasGeocoding() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// ProcessResult - итог обработки одной реплики: запись и текст для пользователя
type ProcessResult struct {
	Record   IncidentRecord `json:"json"`
	Readable string         `json:"readable"`
}

// GeocodeResult - результат геокодирования адреса
type GeocodeResult struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	City    string  `json:"city,omitempty"`
	Region  string  `json:"region,omitempty"`
	Country string  `json:"country,omitempty"`
}
