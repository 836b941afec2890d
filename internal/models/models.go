package models

type SessionUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

type Session struct {
	Token string
	User  *SessionUser
}

func (s Session) LoggedIn() bool {
	return s.Token != "" && s.User != nil
}

func (s Session) IsAdmin() bool {
	return s.LoggedIn() && s.User.Role == RoleAdmin
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type MonitorPoint struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	CreatedAt string  `json:"created_at,omitempty"`
	Active    bool    `json:"active"`
}

type MonitorRecord struct {
	ID               int     `json:"id"`
	MonitorPointID   int     `json:"monitor_point_id"`
	MonitorPointName string  `json:"monitor_point_name"`
	WindSpeed        float64 `json:"wind_speed"`
	Temperature      float64 `json:"temperature"`
	Humidity         float64 `json:"humidity"`
	Timestamp        string  `json:"timestamp"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
}

type FirePrediction struct {
	MonitorPointID   *int      `json:"monitor_point_id,omitempty"`
	MonitorPointName string    `json:"monitor_point_name,omitempty"`
	WindSpeed        float64   `json:"wind_speed"`
	Temperature      float64   `json:"temperature"`
	Humidity         float64   `json:"humidity"`
	RiskLevel        RiskLevel `json:"risk_level"`
	PredictedArea    float64   `json:"predicted_area"`
	Timestamp        string    `json:"timestamp,omitempty"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
}

// FireRecord is a persisted prediction as returned in the summary's recent fires.
type FireRecord struct {
	ID               int       `json:"id"`
	MonitorPointID   int       `json:"monitor_point_id"`
	MonitorPointName string    `json:"monitor_point_name"`
	WindSpeed        float64   `json:"wind_speed"`
	Temperature      float64   `json:"temperature"`
	Humidity         float64   `json:"humidity"`
	RiskLevel        RiskLevel `json:"risk_level"`
	PredictedArea    float64   `json:"predicted_area"`
	Timestamp        string    `json:"timestamp"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
}

type ThresholdSettings struct {
	WindSpeedThreshold   float64 `json:"wind_speed_threshold"`
	TemperatureThreshold float64 `json:"temperature_threshold"`
	HumidityThreshold    float64 `json:"humidity_threshold"`
}

type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

type Summary struct {
	MonitorPointsCount    int          `json:"monitor_points_count"`
	TotalFireRecords      int          `json:"total_fire_records"`
	HighRiskAreasLastWeek int          `json:"high_risk_areas_last_week"`
	AvgFireArea           float64      `json:"avg_fire_area"`
	RecentFires           []FireRecord `json:"recent_fires"`
}

type FireCount struct {
	Total  int            `json:"total"`
	ByRisk map[string]int `json:"by_risk"`
}
