package forms

import (
	"strconv"
	"strings"

	"go-firewatch/internal/api"
	"go-firewatch/internal/models"
)

// FieldError names the input that could not be turned into a request.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

func (p Point) Parse() (api.PointRequest, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return api.PointRequest{}, &FieldError{Field: "name", Message: "Point name is required"}
	}
	lat, ok := parseFloat(p.Latitude)
	if !ok {
		return api.PointRequest{}, &FieldError{Field: "latitude", Message: "Latitude must be a number"}
	}
	long, ok := parseFloat(p.Longitude)
	if !ok {
		return api.PointRequest{}, &FieldError{Field: "longitude", Message: "Longitude must be a number"}
	}
	return api.PointRequest{Name: name, Latitude: lat, Longitude: long}, nil
}

func (r Record) Parse() (api.RecordRequest, error) {
	id, err := strconv.Atoi(strings.TrimSpace(r.MonitorPointID))
	if err != nil || id <= 0 {
		return api.RecordRequest{}, &FieldError{Field: "monitor_point_id", Message: "Select a monitor point"}
	}
	wind, ok := parseFloat(r.WindSpeed)
	if !ok {
		return api.RecordRequest{}, &FieldError{Field: "wind_speed", Message: "Wind speed must be a number"}
	}
	temp, ok := parseFloat(r.Temperature)
	if !ok {
		return api.RecordRequest{}, &FieldError{Field: "temperature", Message: "Temperature must be a number"}
	}
	hum, ok := parseFloat(r.Humidity)
	if !ok {
		return api.RecordRequest{}, &FieldError{Field: "humidity", Message: "Humidity must be a number"}
	}
	return api.RecordRequest{MonitorPointID: id, WindSpeed: wind, Temperature: temp, Humidity: hum}, nil
}

func (u NewUser) Parse() (api.CreateUserRequest, error) {
	req := api.CreateUserRequest{
		Username: strings.TrimSpace(u.Username),
		Email:    strings.TrimSpace(u.Email),
		Password: u.Password,
		Role:     u.Role,
	}
	switch {
	case req.Username == "":
		return api.CreateUserRequest{}, &FieldError{Field: "username", Message: "Username is required"}
	case req.Email == "":
		return api.CreateUserRequest{}, &FieldError{Field: "email", Message: "Email is required"}
	case req.Password == "":
		return api.CreateUserRequest{}, &FieldError{Field: "password", Message: "Password is required"}
	}
	if req.Role != models.RoleAdmin {
		req.Role = models.RoleUser
	}
	return req, nil
}

// Request sends the password only when a replacement was typed.
func (u EditUser) Request() api.UpdateUserRequest {
	return api.UpdateUserRequest{
		Username: strings.TrimSpace(u.Username),
		Email:    strings.TrimSpace(u.Email),
		Password: u.Password,
	}
}
