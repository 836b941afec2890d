package api

import "go-firewatch/internal/models"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message     string              `json:"message"`
	AccessToken string              `json:"access_token"`
	User        *models.SessionUser `json:"user"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PointRequest struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RecordRequest struct {
	MonitorPointID int     `json:"monitor_point_id"`
	WindSpeed      float64 `json:"wind_speed"`
	Temperature    float64 `json:"temperature"`
	Humidity       float64 `json:"humidity"`
}

type PredictionInput struct {
	WindSpeed   float64 `json:"wind_speed"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// SavePredictionRequest is the minimal persist payload; optional fields are
// omitted when absent.
type SavePredictionRequest struct {
	WindSpeed      float64          `json:"wind_speed"`
	Temperature    float64          `json:"temperature"`
	Humidity       float64          `json:"humidity"`
	RiskLevel      models.RiskLevel `json:"risk_level"`
	PredictedArea  float64          `json:"predicted_area"`
	MonitorPointID *int             `json:"monitor_point_id,omitempty"`
	Latitude       *float64         `json:"latitude,omitempty"`
	Longitude      *float64         `json:"longitude,omitempty"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}
