package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/shredworks/pickup-scheduling/internal/config"
)

// End-to-end exerciser: registers customers, books pickups, then has
// concurrent admin workers fight over staff and vehicles with assign and
// complete calls. Conflicts are expected and counted separately from errors.

type SimConfig struct {
	APIBaseURL string
	Users      int
	Staff      int
	Vehicles   int
	Workers    int
	Attempts   int
}

type OperationMetrics struct {
	Total    int64
	Success  int64
	Conflict int64
	Error    int64
}

func (om *OperationMetrics) Record(status int) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case status >= 200 && status < 300:
		atomic.AddInt64(&om.Success, 1)
	case status == http.StatusBadRequest:
		atomic.AddInt64(&om.Conflict, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}
}

type Metrics struct {
	Assign   OperationMetrics
	Complete OperationMetrics
}

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

func main() {
	log.Info().Msg("simulator starting")

	baseCfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	cfg := SimConfig{
		APIBaseURL: getEnv("SIM_API_BASE_URL", "http://localhost:"+baseCfg.HTTPPort),
		Users:      getInt("SIM_USERS", 5),
		Staff:      getInt("SIM_STAFF", 3),
		Vehicles:   getInt("SIM_VEHICLES", 3),
		Workers:    getInt("SIM_WORKERS", 4),
		Attempts:   getInt("SIM_ATTEMPTS", 50),
	}

	log.Info().
		Int("users", cfg.Users).
		Int("staff", cfg.Staff).
		Int("vehicles", cfg.Vehicles).
		Int("workers", cfg.Workers).
		Int("attempts", cfg.Attempts).
		Msg("config loaded")

	gofakeit.Seed(time.Now().UnixNano())

	admin, err := newAPIClient(cfg.APIBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("client error")
	}
	if err := admin.login(baseCfg.AdminEmail, baseCfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("admin login error")
	}

	staffIDs, vehicleIDs, apptIDs := prepare(admin, cfg)
	log.Info().
		Int("staff", len(staffIDs)).
		Int("vehicles", len(vehicleIDs)).
		Int("appointments", len(apptIDs)).
		Msg("data prepared")

	var metrics Metrics
	run(admin, cfg, staffIDs, vehicleIDs, apptIDs, &metrics)

	report("assign", &metrics.Assign)
	report("complete", &metrics.Complete)
}

func prepare(admin *apiClient, cfg SimConfig) (staffIDs, vehicleIDs, apptIDs []string) {
	for i := 0; i < cfg.Staff; i++ {
		id, err := admin.postForID("/api/staff", map[string]any{
			"name":  gofakeit.Name(),
			"phone": gofakeit.Phone(),
		}, "staff")
		if err != nil {
			log.Fatal().Err(err).Msg("create staff error")
		}
		staffIDs = append(staffIDs, id)
	}

	for i := 0; i < cfg.Vehicles; i++ {
		id, err := admin.postForID("/api/vehicles", map[string]any{
			"plate": fmt.Sprintf("%s-%d", gofakeit.LetterN(3), gofakeit.Number(1000, 9999)),
			"type":  "box truck",
		}, "vehicle")
		if err != nil {
			log.Fatal().Err(err).Msg("create vehicle error")
		}
		vehicleIDs = append(vehicleIDs, id)
	}

	for i := 0; i < cfg.Users; i++ {
		email := gofakeit.Email()
		if err := admin.post("/api/auth/register", map[string]any{
			"name":     gofakeit.Name(),
			"email":    email,
			"password": "simpass123",
		}); err != nil {
			log.Fatal().Err(err).Msg("register error")
		}

		user, err := newAPIClient(admin.baseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("client error")
		}
		if err := user.login(email, "simpass123"); err != nil {
			log.Fatal().Err(err).Msg("user login error")
		}

		id, err := user.postForID("/api/appointments", map[string]any{
			"contactName":     gofakeit.Name(),
			"contactPhone":    gofakeit.Phone(),
			"address":         gofakeit.Address().Address,
			"appointmentTime": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
			"items": []map[string]any{
				{"type": "document bags", "quantity": gofakeit.Number(1, 8)},
			},
		}, "appointment")
		if err != nil {
			log.Fatal().Err(err).Msg("create appointment error")
		}
		apptIDs = append(apptIDs, id)
	}

	return staffIDs, vehicleIDs, apptIDs
}

func run(admin *apiClient, cfg SimConfig, staffIDs, vehicleIDs, apptIDs []string, metrics *Metrics) {
	start := time.Now()
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))

			for i := 0; i < cfg.Attempts; i++ {
				apptID := apptIDs[rng.Intn(len(apptIDs))]
				staffID := staffIDs[rng.Intn(len(staffIDs))]
				vehicleID := vehicleIDs[rng.Intn(len(vehicleIDs))]

				status, err := admin.postStatus("/api/appointments/"+apptID+"/assign", map[string]any{
					"staffId":   staffID,
					"vehicleId": vehicleID,
				})
				if err != nil {
					atomic.AddInt64(&metrics.Assign.Total, 1)
					atomic.AddInt64(&metrics.Assign.Error, 1)
					continue
				}
				metrics.Assign.Record(status)

				if status == http.StatusOK {
					status, err := admin.postStatus("/api/appointments/"+apptID+"/complete", nil)
					if err != nil {
						atomic.AddInt64(&metrics.Complete.Total, 1)
						atomic.AddInt64(&metrics.Complete.Error, 1)
						continue
					}
					metrics.Complete.Record(status)
				}
			}
		}(time.Now().UnixNano() + int64(w))
	}

	wg.Wait()
	log.Info().Dur("elapsed", time.Since(start)).Msg("simulation finished")
}

func report(name string, om *OperationMetrics) {
	log.Info().
		Str("operation", name).
		Int64("total", om.Total).
		Int64("success", om.Success).
		Int64("conflict", om.Conflict).
		Int64("error", om.Error).
		Msg("results")
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
	status, err := c.postStatus(path, body)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("POST %s: status %d", path, status)
	}
	return nil
}

func (c *apiClient) postStatus(path string, body map[string]any) (int, error) {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return 0, err
		}
	}

	// Back off on the per-IP rate limit instead of polluting the metrics.
	for attempt := 0; ; attempt++ {
		resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(data))
		if err != nil {
			return 0, err
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests && attempt < 20 {
			time.Sleep(500 * time.Millisecond)
			continue
		}
		return resp.StatusCode, nil
	}
}

// postForID posts and pulls the created record's id out of the named
// payload key.
func (c *apiClient) postForID(path string, body map[string]any, key string) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("POST %s: status %d", path, resp.StatusCode)
	}

	var env map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", err
	}

	var record struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env[key], &record); err != nil {
		return "", fmt.Errorf("decode %s payload: %w", key, err)
	}
	return record.ID, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
