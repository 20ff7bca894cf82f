package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"gamepass-proxy/internal/models"
)

// Key aliases accepted for creator fields. The two upstream endpoints
// disagree on casing, and the product-info endpoint sometimes reports the
// creator ID under a target-id name. Aliases are tried in order.
var (
	creatorKeys             = []string{"Creator", "creator"}
	creatorIDKeys           = []string{"Id", "id", "CreatorTargetId", "creatorTargetId"}
	creatorIDFallbackKeys   = []string{"Id", "id"}
	creatorTypeKeys         = []string{"CreatorType", "Type", "creatorType", "type"}
	creatorTypeFallbackKeys = []string{"CreatorType", "Type"}
	productIDKeys           = []string{"ProductId", "productId"}
)

type GamepassService struct {
	client     *resty.Client
	baseURL    string
	economyURL string
	pageSize   int
	newPacer   PacerFactory
}

type gamepassListResponse struct {
	GamePasses []rawGamepass `json:"gamePasses"`
}

type rawGamepass struct {
	GamePassID  int64  `json:"gamePassId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DisplayIcon struct {
		ImageURI string `json:"imageUri"`
	} `json:"displayIcon"`
	Price     int64 `json:"price"`
	IsForSale bool  `json:"isForSale"`
}

func NewGamepassService(baseURL, economyURL string, timeout time.Duration, pageSize int, newPacer PacerFactory) *GamepassService {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Gamepass-Proxy/1.0")

	return &GamepassService{
		client:     client,
		baseURL:    baseURL,
		economyURL: economyURL,
		pageSize:   pageSize,
		newPacer:   newPacer,
	}
}

// CreatorInfo looks up who created a gamepass. The primary product-info
// endpoint is tried first, then the economy details endpoint. Failures on
// either never propagate; a fully failed lookup returns empty values and a
// nil payload.
func (g *GamepassService) CreatorInfo(ctx context.Context, gamepassID string) (string, string, map[string]interface{}) {
	log := logrus.WithField("gamepass_id", gamepassID)
	log.Info("Checking gamepass creator")

	url := fmt.Sprintf("%s/game-passes/v1/game-passes/%s/product-info", g.baseURL, gamepassID)
	if payload := g.fetchJSON(ctx, url); payload != nil {
		creatorID, creatorType := extractCreator(payload, creatorIDKeys, creatorTypeKeys)
		if creatorID != "" {
			log.WithFields(logrus.Fields{
				"creator_id":   creatorID,
				"creator_type": creatorType,
			}).Info("Creator found")
			return creatorID, creatorType, payload
		}
	}

	url = fmt.Sprintf("%s/v2/assets/%s/details", g.economyURL, gamepassID)
	if payload := g.fetchJSON(ctx, url); payload != nil {
		creatorID, creatorType := extractCreator(payload, creatorIDFallbackKeys, creatorTypeFallbackKeys)
		if creatorID != "" {
			return creatorID, creatorType, payload
		}
	}

	log.Warn("Could not determine gamepass creator")
	return "", "", nil
}

// CollectCreated lists the gamepasses associated with userID and keeps only
// the ones the user personally created, in listing order. Items owned by
// groups are dropped. Listing failures yield an empty slice, never an error.
func (g *GamepassService) CollectCreated(ctx context.Context, userID string) []models.Gamepass {
	created := []models.Gamepass{}

	logrus.WithField("user_id", userID).Info("Fetching gamepasses")

	url := fmt.Sprintf("%s/game-passes/v1/users/%s/game-passes", g.baseURL, userID)
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("count", strconv.Itoa(g.pageSize)).
		Get(url)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Warn("Gamepass listing failed")
		return created
	}
	if !resp.IsSuccess() {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"status":  resp.StatusCode(),
		}).Warn("Gamepass listing returned non-success status")
		return created
	}

	var listing gamepassListResponse
	if err := json.Unmarshal(resp.Body(), &listing); err != nil {
		logrus.WithField("user_id", userID).WithError(err).Warn("Gamepass listing returned malformed JSON")
		return created
	}

	total := len(listing.GamePasses)
	logrus.WithFields(logrus.Fields{"user_id": userID, "count": total}).Info("Gamepasses fetched")

	// Fresh pacer per run: pacing belongs to this collection alone, and its
	// first pause must wait a full interval even after the process was idle.
	pacer := g.newPacer()

	for idx, raw := range listing.GamePasses {
		name := raw.Name
		if name == "" {
			name = "Unknown"
		}

		logrus.WithFields(logrus.Fields{
			"index": idx + 1,
			"total": total,
			"name":  name,
		}).Info("Processing gamepass")

		creatorID, creatorType, details := g.CreatorInfo(ctx, strconv.FormatInt(raw.GamePassID, 10))

		if IsCreator(creatorID, creatorType, userID) {
			created = append(created, models.Gamepass{
				GamepassID:  raw.GamePassID,
				Name:        name,
				Description: raw.Description,
				IconURL:     raw.DisplayIcon.ImageURI,
				Price:       raw.Price,
				IsForSale:   raw.IsForSale,
				ProductID:   productID(details),
			})
		}

		// Uniform pause after every item, the last one included, to avoid
		// tripping upstream throttling.
		if err := pacer.Pause(ctx); err != nil {
			break
		}
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"created": len(created),
	}).Info("Collection finished")

	return created
}

// IsCreator reports whether the creator fields identify userID as the
// individual creator. Group-owned items never match.
func IsCreator(creatorID, creatorType, userID string) bool {
	return creatorType != "" &&
		strings.ToLower(creatorType) == "user" &&
		creatorID == userID
}

// fetchJSON GETs url and decodes the body, preserving number precision.
// Returns nil on any transport, status, or decode failure.
func (g *GamepassService) fetchJSON(ctx context.Context, url string) map[string]interface{} {
	resp, err := g.client.R().SetContext(ctx).Get(url)
	if err != nil {
		logrus.WithField("url", url).WithError(err).Warn("Upstream request failed")
		return nil
	}
	if !resp.IsSuccess() {
		logrus.WithFields(logrus.Fields{
			"url":    url,
			"status": resp.StatusCode(),
		}).Warn("Upstream returned non-success status")
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(resp.Body()))
	dec.UseNumber()
	var payload map[string]interface{}
	if err := dec.Decode(&payload); err != nil {
		logrus.WithField("url", url).WithError(err).Warn("Upstream returned malformed JSON")
		return nil
	}
	return payload
}

// extractCreator pulls the creator ID and kind out of an upstream payload,
// trying each accepted key alias in priority order.
func extractCreator(payload map[string]interface{}, idKeys, typeKeys []string) (string, string) {
	raw, ok := firstKey(payload, creatorKeys...)
	if !ok {
		return "", ""
	}
	creator, ok := raw.(map[string]interface{})
	if !ok {
		return "", ""
	}

	var creatorID, creatorType string
	if v, ok := firstKey(creator, idKeys...); ok {
		creatorID = stringify(v)
	}
	if v, ok := firstKey(creator, typeKeys...); ok {
		creatorType = stringify(v)
	}
	return creatorID, creatorType
}

// productID reads the product ID out of a creator-inspection payload.
func productID(details map[string]interface{}) *int64 {
	if details == nil {
		return nil
	}
	v, ok := firstKey(details, productIDKeys...)
	if !ok {
		return nil
	}
	num, ok := v.(json.Number)
	if !ok {
		return nil
	}
	id, err := num.Int64()
	if err != nil {
		return nil
	}
	return &id
}

// firstKey returns the first non-nil value among the given keys.
func firstKey(m map[string]interface{}, keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// stringify renders a decoded JSON scalar as a string. Numbers keep their
// exact textual form thanks to json.Number decoding.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
