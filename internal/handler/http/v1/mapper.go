package v1

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

// DTOToSignalModel преобразует DTO создания в доменную модель, декодируя картинки
func DTOToSignalModel(dto CreateSignalRequest) (*models.Signal, error) {
	images := make([][]byte, 0, len(dto.ImagesBase64))
	for i, encoded := range dto.ImagesBase64 {
		img, err := decodeImage(encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: image %d is not valid base64", models.ErrValidation, i)
		}
		images = append(images, img)
	}
	if len(images) == 0 {
		images = nil
	}

	return &models.Signal{
		Latitude:    *dto.Latitude,
		Longitude:   *dto.Longitude,
		Description: strings.TrimSpace(dto.Description),
		Images:      images,
	}, nil
}

// decodeImage принимает как чистый base64, так и data URL
func decodeImage(encoded string) ([]byte, error) {
	if strings.HasPrefix(encoded, "data:") {
		if idx := strings.Index(encoded, "base64,"); idx >= 0 {
			encoded = encoded[idx+len("base64,"):]
		}
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
}

// ModelToSignalResponse преобразует доменную модель в DTO для ответа
func ModelToSignalResponse(model *models.Signal) *SignalResponse {
	resp := &SignalResponse{
		ID:             model.ID,
		Latitude:       model.Latitude,
		Longitude:      model.Longitude,
		Description:    model.Description,
		ImageCount:     model.ImageCount,
		DangerLevel:    string(model.DangerLevel),
		AIAssessment:   model.AIAssessment,
		Status:         string(model.Status),
		AssignedTeamID: model.AssignedTeamID,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
	for _, img := range model.Images {
		resp.ImagesBase64 = append(resp.ImagesBase64, base64.StdEncoding.EncodeToString(img))
	}
	if model.RescuerLocation != nil {
		resp.RescuerLocation = ModelToRescuerLocationResponse(model.RescuerLocation)
	}
	return resp
}

// ModelsToSignalResponses преобразует слайс моделей в слайс DTO
func ModelsToSignalResponses(models []*models.Signal) []*SignalResponse {
	responses := make([]*SignalResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToSignalResponse(model)
	}
	return responses
}

func ModelToRescuerLocationResponse(loc *models.RescuerLocation) *RescuerLocationResponse {
	return &RescuerLocationResponse{
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		TeamID:     loc.TeamID,
		ReportedAt: loc.ReportedAt,
	}
}

func ModelsToSignalEventResponses(events []*models.SignalEvent) []*SignalEventResponse {
	responses := make([]*SignalEventResponse, len(events))
	for i, e := range events {
		resp := &SignalEventResponse{
			ID:        e.ID,
			ToStatus:  string(e.ToStatus),
			TeamID:    e.TeamID,
			Notes:     e.Notes,
			CreatedAt: e.CreatedAt,
		}
		if e.FromStatus != nil {
			from := string(*e.FromStatus)
			resp.FromStatus = &from
		}
		responses[i] = resp
	}
	return responses
}

func ModelToTeamResponse(team *models.RescueTeam) TeamResponse {
	return TeamResponse{
		ID:        team.ID,
		Username:  team.Username,
		TeamName:  team.TeamName,
		CreatedAt: team.CreatedAt,
	}
}

func ModelToStatsResponse(stats *models.DashboardStats) *StatsResponse {
	return &StatsResponse{
		TotalSignals:      stats.Total,
		RedSignals:        stats.Red,
		YellowSignals:     stats.Yellow,
		GreenSignals:      stats.Green,
		PendingSignals:    stats.Pending,
		InProgressSignals: stats.InProgress,
		CompletedSignals:  stats.Completed,
	}
}
