package api

import (
	"context"
	"fmt"
	"strings"

	"go-firewatch/internal/models"
)

func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	if err := c.Post(ctx, "/auth/login", req, &resp); err != nil {
		return LoginResponse{}, err
	}
	if strings.TrimSpace(resp.AccessToken) == "" || resp.User == nil {
		return LoginResponse{}, fmt.Errorf("login response is missing access_token or user")
	}
	return resp, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.Post(ctx, "/auth/register", req, nil)
}

func (c *Client) MonitorPoints(ctx context.Context) ([]models.MonitorPoint, error) {
	var points []models.MonitorPoint
	if err := c.Get(ctx, "/monitor/points", &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (c *Client) CreateMonitorPoint(ctx context.Context, req PointRequest) error {
	return c.Post(ctx, "/monitor/points", req, nil)
}

func (c *Client) LatestRecords(ctx context.Context) ([]models.MonitorRecord, error) {
	var records []models.MonitorRecord
	if err := c.Get(ctx, "/monitor/latest", &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) CreateMonitorRecord(ctx context.Context, req RecordRequest) error {
	return c.Post(ctx, "/monitor/records", req, nil)
}

func (c *Client) DeleteMonitorRecord(ctx context.Context, id int) error {
	return c.Delete(ctx, fmt.Sprintf("/monitor/records/%d", id), nil)
}

func (c *Client) Predictions(ctx context.Context) ([]models.FirePrediction, error) {
	var preds []models.FirePrediction
	if err := c.Get(ctx, "/fire/predict", &preds); err != nil {
		return nil, err
	}
	return preds, nil
}

func (c *Client) CustomPrediction(ctx context.Context, in PredictionInput) (models.FirePrediction, error) {
	var pred models.FirePrediction
	if err := c.Post(ctx, "/fire/predict/custom", in, &pred); err != nil {
		return models.FirePrediction{}, err
	}
	return pred, nil
}

func (c *Client) SavePrediction(ctx context.Context, req SavePredictionRequest) error {
	return c.Post(ctx, "/fire/save-prediction", req, nil)
}

func (c *Client) Threshold(ctx context.Context) (models.ThresholdSettings, error) {
	var th models.ThresholdSettings
	if err := c.Get(ctx, "/fire/threshold", &th); err != nil {
		return models.ThresholdSettings{}, err
	}
	return th, nil
}

func (c *Client) UpdateThreshold(ctx context.Context, th models.ThresholdSettings) error {
	return c.Post(ctx, "/fire/threshold", th, nil)
}

func (c *Client) FireCount(ctx context.Context) (models.FireCount, error) {
	var fc models.FireCount
	if err := c.Get(ctx, "/stats/fire-count", &fc); err != nil {
		return models.FireCount{}, err
	}
	return fc, nil
}

func (c *Client) Summary(ctx context.Context) (models.Summary, error) {
	var s models.Summary
	if err := c.Get(ctx, "/stats/summary", &s); err != nil {
		return models.Summary{}, err
	}
	return s, nil
}

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.Get(ctx, "/users/", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) error {
	return c.Post(ctx, "/users/", req, nil)
}

func (c *Client) UpdateUser(ctx context.Context, id int, req UpdateUserRequest) error {
	return c.Put(ctx, fmt.Sprintf("/users/%d", id), req, nil)
}

func (c *Client) SetAdmin(ctx context.Context, id int) error {
	return c.Put(ctx, fmt.Sprintf("/users/set-admin/%d", id), nil, nil)
}

func (c *Client) RemoveAdmin(ctx context.Context, id int) error {
	return c.Put(ctx, fmt.Sprintf("/users/remove-admin/%d", id), nil, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.Delete(ctx, fmt.Sprintf("/users/%d", id), nil)
}
