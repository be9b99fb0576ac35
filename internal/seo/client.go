package seo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

var ErrNoAPIKey = errors.New("gemini api key not configured")

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Content is the SEO copy generated for a route landing page.
type Content struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	H1          string `json:"h1"`
	Content     string `json:"content"`
}

// RouteInfo summarizes one offering of the city pair for the prompt.
type RouteInfo struct {
	MinPrice int
	MaxPrice int
	Duration string
	BusType  string
}

// Client calls the Gemini generateContent API to produce SEO copy for route
// landing pages. It is an optional collaborator: every failure is returned to
// the caller, nothing here sits on a critical path.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      "gemini-pro",
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type promptPart struct {
	Text string `json:"text"`
}

type promptContent struct {
	Parts []promptPart `json:"parts"`
}

type generateRequest struct {
	Contents []promptContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content promptContent `json:"content"`
	} `json:"candidates"`
}

var jsonBlock = regexp.MustCompile(`\{[\s\S]*\}`)

// GenerateRouteContent asks Gemini for SEO copy for one city pair.
func (c *Client) GenerateRouteContent(ctx context.Context, departure, arrival string, routes []RouteInfo) (*Content, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	prompt := buildPrompt(departure, arrival, routes)
	payload, err := json.Marshal(generateRequest{
		Contents: []promptContent{{Parts: []promptPart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, err
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("empty gemini response")
	}

	text := genResp.Candidates[0].Content.Parts[0].Text
	match := jsonBlock.FindString(text)
	if match == "" {
		return nil, errors.New("no JSON payload in gemini response")
	}

	var content Content
	if err := json.Unmarshal([]byte(match), &content); err != nil {
		return nil, fmt.Errorf("invalid gemini JSON payload: %w", err)
	}
	return &content, nil
}

func buildPrompt(departure, arrival string, routes []RouteInfo) string {
	minPrice, maxPrice := 6000, 8000
	duration := "5-6 heures"
	hasVIP := false
	for i, r := range routes {
		if i == 0 || r.MinPrice < minPrice {
			if r.MinPrice > 0 {
				minPrice = r.MinPrice
			}
		}
		if r.MaxPrice > maxPrice {
			maxPrice = r.MaxPrice
		}
		if r.Duration != "" {
			duration = r.Duration
		}
		if r.BusType == "vip" {
			hasVIP = true
		}
	}

	return fmt.Sprintf(`En tant qu'expert SEO et rédacteur spécialisé dans le transport en Côte d'Ivoire, génère un contenu optimisé pour la page : "Bus %s → %s".

CONTEXTE:
- Trajet: %s vers %s
- Prix: %d - %d FCFA
- Durée: %s
- Nombre de compagnies: %d
- Service VIP disponible: %t
- Service: Conciergerie indépendante (nous ne sommes PAS une compagnie de transport)

GÉNÈRE UN JSON AVEC:
1. title: 55-120 caractères, accrocheur, avec prix et année
2. description: 150-160 caractères, persuasive
3. h1: 40-100 caractères, engageant
4. content: 6 phrases riches en informations utiles

FORMAT DE RÉPONSE UNIQUEMENT:
{
  "title": "",
  "description": "",
  "h1": "",
  "content": ""
}

Ton public: Voyageurs ivoiriens cherchant des bus fiables et économiques.`,
		departure, arrival, departure, arrival, minPrice, maxPrice, duration, len(routes), hasVIP)
}
