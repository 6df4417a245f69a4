package get_available_slots

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// WindowResponse рабочее окно на дату
type WindowResponse struct {
	Enabled   bool    `json:"enabled"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
	Source    string  `json:"source"`
}

// SlotsResponse слоты по частям дня, время в HH:MM
type SlotsResponse struct {
	Morning   []string `json:"morning"`
	Afternoon []string `json:"afternoon"`
	Evening   []string `json:"evening"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string         `json:"date"`
	ProfessionalID  *int64         `json:"professionalId,omitempty"`
	DurationMinutes int            `json:"durationMinutes"`
	Window          WindowResponse `json:"window"`
	Slots           SlotsResponse  `json:"slots"`
	Total           int            `json:"total"`
}

// errQuantitiesMismatch количество значений quantities не совпадает с serviceIds
var errQuantitiesMismatch = errors.New("quantities must match serviceIds")

// ToQuantities сопоставляет quantities с serviceIds по позиции
// Пустой список означает количество 1 для каждой услуги
func ToQuantities(serviceIDs, quantities []int64) (map[int64]int, error) {
	if len(quantities) == 0 {
		return nil, nil
	}
	if len(quantities) != len(serviceIDs) {
		return nil, errQuantitiesMismatch
	}

	result := make(map[int64]int, len(serviceIDs))
	for i, id := range serviceIDs {
		result[id] = int(quantities[i])
	}
	return result, nil
}

// ToUseCaseRequest формирует запрос use case, дата в формате YYYY-MM-DD
func ToUseCaseRequest(dateStr string, serviceIDs []int64, quantities map[int64]int, professionalID *int64) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		Date:           date,
		ServiceIDs:     serviceIDs,
		Quantities:     quantities,
		ProfessionalID: professionalID,
	}, nil
}

func formatMinutes(minutes []int) []string {
	out := make([]string, 0, len(minutes))
	for _, m := range minutes {
		out = append(out, types.FromMinutes(m).String())
	}
	return out
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	window := WindowResponse{
		Enabled: resp.Window.Enabled,
		Source:  string(resp.Window.Source),
	}
	if resp.Window.Enabled {
		open := types.FromMinutes(resp.Window.OpenMinute).String()
		closeTime := types.FromMinutes(resp.Window.CloseMinute).String()
		window.OpenTime, window.CloseTime = &open, &closeTime
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ProfessionalID:  resp.ProfessionalID,
		DurationMinutes: resp.DurationMinutes,
		Window:          window,
		Slots: SlotsResponse{
			Morning:   formatMinutes(resp.Slots.Morning),
			Afternoon: formatMinutes(resp.Slots.Afternoon),
			Evening:   formatMinutes(resp.Slots.Evening),
		},
		Total: resp.Slots.Total(),
	}
}
