// Package forms holds the editable text buffers behind every dashboard form and
// the rules that turn them into request payloads.
package forms

import (
	"strconv"
	"strings"

	"go-firewatch/internal/models"
)

type Login struct {
	Username string
	Password string
}

type Register struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

type Point struct {
	Name      string
	Latitude  string
	Longitude string
}

type Record struct {
	MonitorPointID string
	WindSpeed      string
	Temperature    string
	Humidity       string
}

type Prediction struct {
	WindSpeed   string
	Temperature string
	Humidity    string
}

type Threshold struct {
	WindSpeed   string
	Temperature string
	Humidity    string
}

type NewUser struct {
	Username string
	Email    string
	Password string
	Role     string
}

// EditUser never carries the stored password; Password is only a replacement.
// Role is shown for reference and never sent; roles change through set-admin
// and remove-admin.
type EditUser struct {
	ID       int
	Username string
	Email    string
	Password string
	Role     string
}

// Set is every form buffer the dashboard edits.
type Set struct {
	Login      Login
	Register   Register
	Point      Point
	Record     Record
	Prediction Prediction
	Threshold  Threshold
	NewUser    NewUser
	EditUser   EditUser
}

func NewSet() Set {
	return Set{
		Point:      DefaultPoint(),
		Record:     DefaultRecord(""),
		Prediction: DefaultPrediction(),
		Threshold:  DefaultThreshold(),
		NewUser:    DefaultNewUser(),
	}
}

func DefaultPoint() Point {
	return Point{Latitude: "35.0", Longitude: "116.0"}
}

// DefaultRecord keeps the selected monitor point so several readings can be
// entered for the same station.
func DefaultRecord(pointID string) Record {
	return Record{MonitorPointID: pointID, WindSpeed: "10.0", Temperature: "25.0", Humidity: "60.0"}
}

func DefaultPrediction() Prediction {
	return Prediction{WindSpeed: "10", Temperature: "30", Humidity: "60"}
}

func DefaultThreshold() Threshold {
	return Threshold{WindSpeed: "10.0", Temperature: "30.0", Humidity: "30.0"}
}

func DefaultNewUser() NewUser {
	return NewUser{Role: models.RoleUser}
}

// EditUserFrom copies an existing account into the edit buffer, password blank.
func EditUserFrom(u models.User) EditUser {
	return EditUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

func ThresholdFrom(t models.ThresholdSettings) Threshold {
	return Threshold{
		WindSpeed:   formatFloat(t.WindSpeedThreshold),
		Temperature: formatFloat(t.TemperatureThreshold),
		Humidity:    formatFloat(t.HumidityThreshold),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
