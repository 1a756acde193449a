package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/shredworks/pickup-scheduling/internal/config"
)

// The stores live inside the server process, so seeding goes through the
// HTTP API of a running instance rather than a shared database.

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

var itemTypes = []string{
	"document bags",
	"file boxes",
	"hard drives",
	"backup tapes",
	"shredder bins",
	"binders",
}

var vehicleTypes = []string{
	"small van",
	"box truck",
	"cargo van",
}

func main() {
	log.Info().Msg("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	baseURL := getEnv("SEED_API_BASE_URL", "http://localhost:"+cfg.HTTPPort)
	staffCount := 5
	vehicleCount := 3
	userCount := 10
	apptsPerUser := 2

	gofakeit.Seed(time.Now().UnixNano())

	admin, err := newAPIClient(baseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("client error")
	}
	if err := admin.login(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("admin login error")
	}

	for i := 0; i < staffCount; i++ {
		if err := admin.post("/api/staff", map[string]any{
			"name":  gofakeit.Name(),
			"phone": gofakeit.Phone(),
		}); err != nil {
			log.Fatal().Err(err).Msg("seed staff error")
		}
	}
	log.Info().Int("count", staffCount).Msg("staff seeded")

	for i := 0; i < vehicleCount; i++ {
		plate := fmt.Sprintf("%s-%d", gofakeit.LetterN(3), gofakeit.Number(1000, 9999))
		if err := admin.post("/api/vehicles", map[string]any{
			"plate": plate,
			"type":  vehicleTypes[gofakeit.Number(0, len(vehicleTypes)-1)],
		}); err != nil {
			log.Fatal().Err(err).Msg("seed vehicle error")
		}
	}
	log.Info().Int("count", vehicleCount).Msg("vehicles seeded")

	for i := 0; i < userCount; i++ {
		email := gofakeit.Email()
		password := "seedpass123"

		if err := admin.post("/api/auth/register", map[string]any{
			"name":     gofakeit.Name(),
			"email":    email,
			"password": password,
		}); err != nil {
			log.Fatal().Err(err).Msg("seed user error")
		}

		user, err := newAPIClient(baseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("client error")
		}
		if err := user.login(email, password); err != nil {
			log.Fatal().Err(err).Msg("seeded user login error")
		}

		for j := 0; j < apptsPerUser; j++ {
			if err := user.post("/api/appointments", map[string]any{
				"contactName":     gofakeit.Name(),
				"contactPhone":    gofakeit.Phone(),
				"address":         gofakeit.Address().Address,
				"appointmentTime": time.Now().Add(time.Duration(gofakeit.Number(24, 240)) * time.Hour).Format(time.RFC3339),
				"items": []map[string]any{
					{
						"type":     itemTypes[gofakeit.Number(0, len(itemTypes)-1)],
						"quantity": gofakeit.Number(1, 10),
					},
				},
			}); err != nil {
				log.Fatal().Err(err).Msg("seed appointment error")
			}
		}
	}
	log.Info().Int("users", userCount).Int("appointments", userCount*apptsPerUser).Msg("users and appointments seeded")

	log.Info().Msg("seed complete")
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) (*apiClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &apiClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second, Jar: jar},
	}, nil
}

func (c *apiClient) login(email, password string) error {
	return c.post("/api/auth/login", map[string]any{"email": email, "password": password})
}

func (c *apiClient) post(path string, body map[string]any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	// The credential endpoints are rate limited per IP; back off and retry
	// instead of failing the whole seed run.
	for attempt := 0; ; attempt++ {
		resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(data))
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < 20 {
			resp.Body.Close()
			time.Sleep(500 * time.Millisecond)
			continue
		}

		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			var env struct {
				Message string `json:"message"`
			}
			_ = json.NewDecoder(resp.Body).Decode(&env)
			return fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, env.Message)
		}
		return nil
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
