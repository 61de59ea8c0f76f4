package sizing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	log "github.com/sirupsen/logrus"

	"tenant-provisioning-service/internal/config"
	"tenant-provisioning-service/internal/core/domain"
	output "tenant-provisioning-service/internal/core/ports/output"
)

const (
	computePath   = "/v1/sizing/compute"
	retryInterval = 500 * time.Millisecond
)

type client struct {
	httpClient *http.Client
	baseURL    string
	retries    int
}

// NewClient creates the HTTP adapter for the external sizing service.
func NewClient(cfg *config.SizingConfig) output.SizingClient {
	return &client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.URL,
		retries:    cfg.Retries,
	}
}

type computeRequest struct {
	Channels map[domain.ServiceType]int `json:"channels"`
}

type computeResponse struct {
	CPU            float64                          `json:"cpu"`
	MemoryGB       float64                          `json:"memory_gb"`
	GPU            float64                          `json:"gpu"`
	StorageTB      float64                          `json:"storage_tb"`
	CostByProvider map[domain.CloudProvider]float64 `json:"cost_by_provider"`
}

func (c *client) ComputeResources(ctx context.Context, requirement domain.ServiceRequirement) (*output.SizingResult, error) {
	payload, err := json.Marshal(computeRequest{Channels: requirement})
	if err != nil {
		return nil, fmt.Errorf("encode sizing request: %w", err)
	}

	url := c.baseURL + computePath

	retryOptions := []retry.Option{
		retry.Attempts(uint(c.retries)),
		retry.Delay(retryInterval),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	}

	body, err := retry.DoWithData(
		func() ([]byte, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
			if err != nil {
				return nil, retry.Unrecoverable(fmt.Errorf("create sizing request: %w", err))
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				log.WithError(err).WithField("url", url).Warn("sizing request failed, retrying")
				return nil, fmt.Errorf("sizing request: %w", err)
			}
			defer resp.Body.Close()

			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, fmt.Errorf("read sizing response: %w", err)
			}

			switch {
			case resp.StatusCode == http.StatusOK:
				return data, nil
			case resp.StatusCode >= http.StatusInternalServerError:
				return nil, fmt.Errorf("sizing service returned HTTP %d", resp.StatusCode)
			default:
				// Client errors are validation failures; retrying cannot help.
				return nil, retry.Unrecoverable(fmt.Errorf("sizing service rejected request: HTTP %d: %s", resp.StatusCode, data))
			}
		},
		retryOptions...,
	)
	if err != nil {
		return nil, err
	}

	var decoded computeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode sizing response: %w", err)
	}

	return &output.SizingResult{
		CPU:            decoded.CPU,
		MemoryGB:       decoded.MemoryGB,
		GPU:            decoded.GPU,
		StorageTB:      decoded.StorageTB,
		CostByProvider: decoded.CostByProvider,
	}, nil
}
