package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fairlens/backend/pkg/logger"
)

type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func analysisKey(datasetID, requestHash string) string {
	return fmt.Sprintf("analysis:%s:%s", datasetID, requestHash)
}

func comparisonKey(datasetID1, datasetID2, requestHash string) string {
	return fmt.Sprintf("comparison:%s:%s:%s", datasetID1, datasetID2, requestHash)
}

func (c *Client) SetAnalysis(ctx context.Context, datasetID, requestHash string, response interface{}, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	err = c.client.Set(ctx, analysisKey(datasetID, requestHash), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set analysis cache: %w", err)
	}

	logger.Debug("Analysis cached", zap.String("dataset_id", datasetID), zap.String("request_hash", requestHash), zap.Duration("ttl", ttl))
	return nil
}

func (c *Client) GetAnalysis(ctx context.Context, datasetID, requestHash string, response interface{}) (bool, error) {
	data, err := c.client.Get(ctx, analysisKey(datasetID, requestHash)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get analysis cache: %w", err)
	}

	err = json.Unmarshal(data, response)
	if err != nil {
		return false, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	logger.Debug("Analysis cache hit", zap.String("dataset_id", datasetID), zap.String("request_hash", requestHash))
	return true, nil
}

func (c *Client) SetComparison(ctx context.Context, datasetID1, datasetID2, requestHash string, response interface{}, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	err = c.client.Set(ctx, comparisonKey(datasetID1, datasetID2, requestHash), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set comparison cache: %w", err)
	}

	logger.Debug("Comparison cached", zap.String("dataset_id_1", datasetID1), zap.String("dataset_id_2", datasetID2))
	return nil
}

func (c *Client) GetComparison(ctx context.Context, datasetID1, datasetID2, requestHash string, response interface{}) (bool, error) {
	data, err := c.client.Get(ctx, comparisonKey(datasetID1, datasetID2, requestHash)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get comparison cache: %w", err)
	}

	err = json.Unmarshal(data, response)
	if err != nil {
		return false, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	logger.Debug("Comparison cache hit", zap.String("dataset_id_1", datasetID1), zap.String("dataset_id_2", datasetID2))
	return true, nil
}

// InvalidateDataset drops every cached analysis and comparison touching the
// dataset. Called when a dataset is deleted or re-uploaded.
func (c *Client) InvalidateDataset(ctx context.Context, datasetID string) error {
	patterns := []string{
		fmt.Sprintf("analysis:%s:*", datasetID),
		fmt.Sprintf("comparison:*%s*", datasetID),
	}

	for _, pattern := range patterns {
		iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			err := c.client.Del(ctx, iter.Val()).Err()
			if err != nil {
				logger.Warn("Failed to delete cache key", zap.Error(err))
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to iterate cache keys: %w", err)
		}
	}

	logger.Info("Dataset cache invalidated", zap.String("dataset_id", datasetID))
	return nil
}
