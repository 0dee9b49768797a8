package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/pitwall/internal/logger"
	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/models"
)

const (
	ergastSourceName = "ergast"
	defaultRaceLaps  = 50
	defaultLengthKM  = 5.0
	maxResponseBytes = 8 << 20
)

// CircuitLookup returns known static data for a circuit id
type CircuitLookup func(circuitID string) (models.Circuit, bool)

// ErgastClient implements DataSource for an Ergast-compatible results API
type ErgastClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	circuits   CircuitLookup
	logger     *logger.DataLogger
}

// ergastResponse is the MRData envelope returned by every endpoint
type ergastResponse struct {
	MRData struct {
		Total        string `json:"total"`
		CircuitTable struct {
			Circuits []ergastCircuit `json:"Circuits"`
		} `json:"CircuitTable"`
		RaceTable struct {
			Races []ergastRace `json:"Races"`
		} `json:"RaceTable"`
	} `json:"MRData"`
}

type ergastCircuit struct {
	CircuitID   string `json:"circuitId"`
	CircuitName string `json:"circuitName"`
	Location    struct {
		Locality string `json:"locality"`
		Country  string `json:"country"`
	} `json:"Location"`
}

type ergastRace struct {
	Season            string             `json:"season"`
	Round             string             `json:"round"`
	RaceName          string             `json:"raceName"`
	Circuit           ergastCircuit      `json:"Circuit"`
	Date              string             `json:"date"`
	Time              string             `json:"time"`
	Results           []ergastResult     `json:"Results"`
	QualifyingResults []ergastQualifying `json:"QualifyingResults"`
}

type ergastDriver struct {
	DriverID        string `json:"driverId"`
	PermanentNumber string `json:"permanentNumber"`
	Code            string `json:"code"`
	GivenName       string `json:"givenName"`
	FamilyName      string `json:"familyName"`
}

type ergastConstructor struct {
	ConstructorID string `json:"constructorId"`
	Name          string `json:"name"`
}

type ergastResult struct {
	Number      string            `json:"number"`
	Position    string            `json:"position"`
	Points      string            `json:"points"`
	Driver      ergastDriver      `json:"Driver"`
	Constructor ergastConstructor `json:"Constructor"`
	Grid        string            `json:"grid"`
	Laps        string            `json:"laps"`
	Status      string            `json:"status"`
	Time        *struct {
		Millis string `json:"millis"`
		Time   string `json:"time"`
	} `json:"Time"`
}

type ergastQualifying struct {
	Number      string            `json:"number"`
	Position    string            `json:"position"`
	Driver      ergastDriver      `json:"Driver"`
	Constructor ergastConstructor `json:"Constructor"`
	Q1          string            `json:"Q1"`
	Q2          string            `json:"Q2"`
	Q3          string            `json:"Q3"`
}

// NewErgastClient creates a new Ergast API client.
// circuits may be nil, in which case lap counts come from the results.
func NewErgastClient(httpClient *RateLimitedHTTPClient, baseURL string, circuits CircuitLookup, log *logger.DataLogger) *ErgastClient {
	return &ErgastClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		circuits:   circuits,
		logger:     log,
	}
}

// Name returns the name of the data source
func (c *ErgastClient) Name() string {
	return ergastSourceName
}

// FetchCircuits retrieves the circuits on a season's calendar
func (c *ErgastClient) FetchCircuits(ctx context.Context, season int) ([]models.Circuit, error) {
	var payload ergastResponse
	url := fmt.Sprintf("%s/%d/circuits.json", c.baseURL, season)
	if err := c.get(ctx, url, "circuits", season, "", &payload); err != nil {
		return nil, err
	}

	circuits := make([]models.Circuit, 0, len(payload.MRData.CircuitTable.Circuits))
	for _, ec := range payload.MRData.CircuitTable.Circuits {
		circuits = append(circuits, c.circuit(ec))
	}
	return circuits, nil
}

// FetchRace retrieves the race classification for a season and circuit
func (c *ErgastClient) FetchRace(ctx context.Context, season int, circuitID string) (*models.Race, error) {
	var payload ergastResponse
	url := fmt.Sprintf("%s/%d/circuits/%s/results.json", c.baseURL, season, circuitID)
	if err := c.get(ctx, url, "results", season, circuitID, &payload); err != nil {
		return nil, err
	}

	races := payload.MRData.RaceTable.Races
	if len(races) == 0 || len(races[0].Results) == 0 {
		return nil, NewDataSourceError(ergastSourceName, ErrCodeNotFound,
			fmt.Sprintf("no race results for %s %d", circuitID, season), models.ErrNotFound)
	}
	return c.race(races[0], season), nil
}

// FetchQualifying retrieves the qualifying classification for a season and circuit
func (c *ErgastClient) FetchQualifying(ctx context.Context, season int, circuitID string) (*models.QualifyingSession, error) {
	var payload ergastResponse
	url := fmt.Sprintf("%s/%d/circuits/%s/qualifying.json", c.baseURL, season, circuitID)
	if err := c.get(ctx, url, "qualifying", season, circuitID, &payload); err != nil {
		return nil, err
	}

	races := payload.MRData.RaceTable.Races
	if len(races) == 0 || len(races[0].QualifyingResults) == 0 {
		return nil, NewDataSourceError(ergastSourceName, ErrCodeNotFound,
			fmt.Sprintf("no qualifying results for %s %d", circuitID, season), models.ErrNotFound)
	}

	er := races[0]
	session := &models.QualifyingSession{
		Season:  atoiDefault(er.Season, season),
		Round:   atoiDefault(er.Round, 0),
		Name:    er.RaceName,
		Circuit: c.circuit(er.Circuit),
		Date:    parseDate(er.Date, er.Time),
	}
	for i, q := range er.QualifyingResults {
		session.Results = append(session.Results, models.QualifyingResult{
			Position: atoiDefault(q.Position, i+1),
			Driver:   driver(q.Driver, q.Constructor, q.Number),
			Q1:       optional(q.Q1),
			Q2:       optional(q.Q2),
			Q3:       optional(q.Q3),
		})
	}
	return session, nil
}

func (c *ErgastClient) get(ctx context.Context, url, resource string, season int, gp string, out interface{}) error {
	start := time.Now()
	err := c.doGet(ctx, url, out)
	elapsed := time.Since(start)

	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.RecordDataFetch(ergastSourceName, resource, status, elapsed.Seconds())
	if c.logger != nil {
		c.logger.LogFetch(ergastSourceName, resource, season, gp, float64(elapsed.Milliseconds()), err)
	}
	return err
}

func (c *ErgastClient) doGet(ctx context.Context, url string, out interface{}) error {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return NewDataSourceError(ergastSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(ergastSourceName, ErrCodeNotFound, url, models.ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(ergastSourceName, ErrCodeRateLimitExceeded, url, ErrRateLimitExceeded)
	case resp.StatusCode >= 500:
		return NewDataSourceError(ergastSourceName, ErrCodeServerError, fmt.Sprintf("status %d", resp.StatusCode), ErrServerError)
	case resp.StatusCode != http.StatusOK:
		return NewDataSourceError(ergastSourceName, ErrCodeUnknown, fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return NewDataSourceError(ergastSourceName, ErrCodeNetworkError, "failed to read response", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return NewDataSourceError(ergastSourceName, ErrCodeInvalidData, "failed to decode response", fmt.Errorf("%w: %v", ErrInvalidData, err))
	}
	return nil
}

func (c *ErgastClient) circuit(ec ergastCircuit) models.Circuit {
	circuit := models.Circuit{
		ID:       ec.CircuitID,
		Name:     ec.CircuitName,
		Country:  ec.Location.Country,
		City:     ec.Location.Locality,
		LengthKM: defaultLengthKM,
	}
	if circuit.ID == "" {
		circuit.ID = "unknown"
	}
	if circuit.Name == "" {
		circuit.Name = "Unknown Circuit"
	}
	if c.circuits != nil {
		if known, ok := c.circuits(circuit.ID); ok {
			circuit.LengthKM = known.LengthKM
			circuit.Laps = known.Laps
		}
	}
	return circuit
}

func (c *ErgastClient) race(er ergastRace, season int) *models.Race {
	race := &models.Race{
		Season:  atoiDefault(er.Season, season),
		Round:   atoiDefault(er.Round, 0),
		Name:    er.RaceName,
		Circuit: c.circuit(er.Circuit),
		Date:    parseDate(er.Date, er.Time),
	}
	if race.Name == "" {
		race.Name = race.Circuit.Name
	}

	for i, r := range er.Results {
		result := models.RaceResult{
			Position: atoiDefault(r.Position, i+1),
			Driver:   driver(r.Driver, r.Constructor, r.Number),
			Points:   atofDefault(r.Points, 0),
			Laps:     atoiDefault(r.Laps, 0),
			Status:   r.Status,
			Grid:     atoiDefault(r.Grid, 0),
		}
		if result.Status == "" {
			result.Status = "Unknown"
		}
		if r.Time != nil && r.Time.Time != "" {
			t := r.Time.Time
			result.Time = &t
		}
		race.Results = append(race.Results, result)
	}

	if race.Circuit.Laps == 0 {
		race.Circuit.Laps = defaultRaceLaps
		if winner, ok := race.Winner(); ok && winner.Laps > 0 {
			race.Circuit.Laps = winner.Laps
		}
	}
	return race
}

func driver(ed ergastDriver, con ergastConstructor, carNumber string) models.Driver {
	d := models.Driver{
		ID:     ed.DriverID,
		Code:   ed.Code,
		Name:   strings.TrimSpace(ed.GivenName + " " + ed.FamilyName),
		TeamID: con.ConstructorID,
		Team:   con.Name,
		Number: atoiDefault(ed.PermanentNumber, atoiDefault(carNumber, 0)),
	}
	if d.ID == "" {
		d.ID = "unknown"
	}
	if d.Code == "" {
		d.Code = "???"
	}
	if d.Name == "" {
		d.Name = "Unknown"
	}
	if d.Team == "" {
		d.Team = "Unknown Team"
	}
	return d
}

func parseDate(date, clock string) time.Time {
	if date == "" {
		return time.Time{}
	}
	if clock != "" {
		if t, err := time.Parse(time.RFC3339, date+"T"+clock); err == nil {
			return t
		}
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}
	}
	return t
}

func atoiDefault(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

func atofDefault(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
