package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/arrowtools/arrowcat/internal/config"
	"github.com/arrowtools/arrowcat/internal/fetch"
	"github.com/arrowtools/arrowcat/internal/types"
)

// APIStrategy extracts through the vendor's machine-readable endpoints:
// a POST listing request per vehicle and a GET detail request per article.
type APIStrategy struct {
	client  *fetch.Client
	apiBase string
	brand   string
	logger  *slog.Logger
}

// NewAPIStrategy creates the API extraction strategy.
func NewAPIStrategy(client *fetch.Client, cfg *config.Config, logger *slog.Logger) *APIStrategy {
	return &APIStrategy{
		client:  client,
		apiBase: strings.TrimRight(cfg.Vendor.BaseURL, "/") + cfg.Vendor.APIPath,
		brand:   cfg.Vendor.Brand,
		logger:  logger.With("component", "api_strategy"),
	}
}

func (s *APIStrategy) Name() string { return StrategyAPI }

// apiArticle mirrors the vendor's listing payload field names.
type apiArticle struct {
	Codice       string   `json:"Codice"`
	DescEn       string   `json:"Desc_en"`
	Description  string   `json:"Description"`
	IDArticolo   int      `json:"IDArticolo"`
	Euro4ECE     flexBool `json:"Euro4ECE"`
	Euro4        flexBool `json:"Euro4"`
	Omologazione flexBool `json:"Omologazione"`
	Outlet       flexBool `json:"Outlet"`
}

// Fetch lists all articles mounted on the vehicle.
func (s *APIStrategy) Fetch(ctx context.Context, t Target) ([]*types.Product, types.VehicleInfo, error) {
	info := types.VehicleInfo{ID: t.VehicleID}

	listURL := fmt.Sprintf("%s/montaggi/%d", s.apiBase, t.VehicleID)
	resp, err := s.client.PostForm(ctx, listURL, url.Values{
		"UserId": {""},
		"Brand":  {s.brand},
	})
	if err != nil {
		return nil, info, err
	}

	var articles []apiArticle
	if err := resp.JSON(&articles); err != nil {
		return nil, info, &types.ParseError{URL: listURL, What: "article list", Err: err}
	}

	products := make([]*types.Product, 0, len(articles))
	for _, a := range articles {
		if a.Codice == "" {
			continue
		}
		products = append(products, &types.Product{
			SKU:            a.Codice,
			Name:           a.DescEn,
			Category:       normalizeCategory(a.Description),
			ArticleID:      a.IDArticolo,
			SourceStrategy: StrategyAPI,
			HasFlags:       true,
			Euro4ECE:       bool(a.Euro4ECE),
			Euro4:          bool(a.Euro4),
			Omologazione:   bool(a.Omologazione),
			Outlet:         bool(a.Outlet),
		})
	}

	return products, info, nil
}

// Details fetches the specification payload for one article. The endpoint
// answers with an array; the first record is the one that counts.
func (s *APIStrategy) Details(ctx context.Context, p *types.Product) (map[string]string, error) {
	if p.ArticleID == 0 {
		return nil, nil
	}

	detailURL := fmt.Sprintf("%s/montaggi/specifiche/%d?UserId=&Brand=%s",
		s.apiBase, p.ArticleID, url.QueryEscape(s.brand))

	resp, err := s.client.Get(ctx, detailURL)
	if err != nil {
		return nil, err
	}

	var records []map[string]any
	if err := resp.JSON(&records); err != nil {
		return nil, &types.ParseError{URL: detailURL, What: "specification payload", Err: err}
	}
	if len(records) == 0 {
		return nil, nil
	}

	return stringifySpecs(records[0]), nil
}

// stringifySpecs flattens a decoded JSON object into the feature->value
// string map the Product carries.
func stringifySpecs(record map[string]any) map[string]string {
	specs := make(map[string]string, len(record))
	for k, v := range record {
		switch val := v.(type) {
		case nil:
			// absent value, skip
		case string:
			if val != "" {
				specs[k] = val
			}
		case float64:
			specs[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			specs[k] = strconv.FormatBool(val)
		default:
			b, _ := json.Marshal(val)
			specs[k] = string(b)
		}
	}
	return specs
}

// normalizeCategory maps a vendor category label onto the canonical set.
func normalizeCategory(label string) string {
	switch strings.TrimSpace(label) {
	case types.CategorySilencers, types.CategoryMidPipes, types.CategoryCollectors:
		return strings.TrimSpace(label)
	case "":
		return types.CategoryUnknown
	default:
		return strings.TrimSpace(label)
	}
}

// flexBool accepts the vendor's loose boolean encodings: true/false,
// 0/1, "0"/"1", null.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte(`""`)):
		*b = false
	case bytes.Equal(data, []byte("true")):
		*b = true
	case bytes.Equal(data, []byte("false")):
		*b = false
	default:
		s := strings.Trim(string(data), `"`)
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("cannot interpret %s as boolean flag", data)
		}
		*b = n != 0
	}
	return nil
}
