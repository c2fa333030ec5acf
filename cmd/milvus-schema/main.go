// Command milvus-schema creates the activity and company collections through the Milvus REST API.
package main

import (
	"bealive-agent-backend/config"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	int64Type       = "Int64"
	floatVectorType = "FloatVector"
	varcharType     = "VarChar"
)

type CreateCollectionRequest struct {
	CollectionName string         `json:"collectionName"`
	Schema         *Schema        `json:"schema"`
	IndexParams    []*IndexParams `json:"indexParams"`
}

type Schema struct {
	AutoID             bool     `json:"autoId"`
	EnableDynamicField bool     `json:"enableDynamicField"`
	Fields             []*Field `json:"fields"`
}

type Field struct {
	FieldName         string            `json:"fieldName"`
	DataType          string            `json:"dataType"`
	ElementTypeParams map[string]string `json:"elementTypeParams"`
	IsPrimary         bool              `json:"isPrimary,omitempty"`
}

type IndexParams struct {
	MetricType string            `json:"metricType"`
	FieldName  string            `json:"fieldName"`
	IndexName  string            `json:"indexName"`
	Params     map[string]string `json:"params"`
}

// collectionRequest describes a collection keyed by an int64 id holding the embedded text.
func collectionRequest(name string, dim int) *CreateCollectionRequest {
	return &CreateCollectionRequest{
		CollectionName: name,
		Schema: &Schema{
			EnableDynamicField: false,
			Fields: []*Field{
				{
					FieldName: "id",
					DataType:  int64Type,
					IsPrimary: true,
				},
				{
					FieldName: "vector",
					DataType:  floatVectorType,
					ElementTypeParams: map[string]string{
						"dim": strconv.Itoa(dim),
					},
				},
				{
					FieldName: "text",
					DataType:  varcharType,
					ElementTypeParams: map[string]string{
						"max_length": "65535",
					},
				},
			},
		},
		IndexParams: []*IndexParams{
			{
				MetricType: "COSINE",
				FieldName:  "vector",
				IndexName:  "vector_index",
				Params: map[string]string{
					"indexType": "HNSW",
				},
			},
		},
	}
}

func createCollection(ctx context.Context, endpoint, apiKey string, body *CreateCollectionRequest) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v2/vectordb/collections/create", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Add("Authorization", "Bearer "+apiKey)
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	slog.Info("create milvus collection response", "collection", body.CollectionName, "body", string(respBody))
	return nil
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("Failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := config.Cfg

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, name := range []string{cfg.Vector.ActivityCollection, cfg.Vector.CompanyCollection} {
		if err := createCollection(ctx, cfg.Milvus.Endpoint, cfg.Milvus.APIKey, collectionRequest(name, cfg.Vector.Dim)); err != nil {
			slog.Error("Failed to create collection", "collection", name, "err", err)
			os.Exit(1)
		}
	}
}
