package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"deen-quest-system/models"
	"deen-quest-system/utils"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// defaultTimings is served when the provider is unreachable and no cache row
// exists. Approximate Mecca timings; clients treat fallback rows as estimates.
var defaultTimings = map[models.PrayerName]string{
	models.PrayerFajr:    "05:00",
	models.PrayerDhuhr:   "12:15",
	models.PrayerAsr:     "15:30",
	models.PrayerMaghrib: "18:10",
	models.PrayerIsha:    "19:40",
}

// PrayerTimesService looks up the external timings provider (AlAdhan-style
// API), caching one row per (date, lat, lng) and falling back to a fixed
// table when the provider is down.
type PrayerTimesService struct {
	DB      *gorm.DB
	BaseURL string
	Client  *http.Client
}

func NewPrayerTimesService(db *gorm.DB) *PrayerTimesService {
	baseURL := os.Getenv("PRAYER_TIMES_API_URL")
	if baseURL == "" {
		baseURL = "https://api.aladhan.com"
	}
	return &PrayerTimesService{
		DB:      db,
		BaseURL: baseURL,
		Client:  utils.HTTPClient,
	}
}

type providerResponse struct {
	Code int `json:"code"`
	Data struct {
		Timings map[string]string `json:"timings"`
	} `json:"data"`
}

func coordKey(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// GetPrayerTimes returns the timing table for (date, lat, lng). Cache first,
// then provider, then the fixed fallback; only provider responses are cached
// with source=provider so a later retry can replace a fallback row.
func (s *PrayerTimesService) GetPrayerTimes(date string, lat, lng float64, method int) (*models.PrayerTimesCache, error) {
	if date == "" {
		date = utils.TodayKey()
	}
	if method <= 0 {
		method = 4
	}

	var cached models.PrayerTimesCache
	err := s.DB.Where("date = ? AND latitude = ? AND longitude = ?", date, coordKey(lat), coordKey(lng)).
		First(&cached).Error
	if err == nil && cached.Source == "provider" {
		return &cached, nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, translateDBErr(err)
	}

	row, fetchErr := s.fetchFromProvider(date, lat, lng, method)
	if fetchErr != nil {
		log.Warnf("⚠️ Prayer times provider unavailable (%v), using fallback table", fetchErr)
		if cached.ID != "" {
			return &cached, nil
		}
		row = s.fallbackRow(date, lat, lng, method)
	}

	// A provider response supersedes an earlier fallback row.
	if cached.ID != "" {
		row.ID = cached.ID
		if err := s.DB.Save(row).Error; err != nil {
			log.Warnf("⚠️ Could not upgrade cached prayer times: %v", err)
			return &cached, nil
		}
		return row, nil
	}

	// Races on the (date, lat, lng) index just mean someone else cached it.
	if err := s.DB.Create(row).Error; err != nil {
		if translated := translateDBErr(err); translated == ErrConflict {
			var existing models.PrayerTimesCache
			if lookupErr := s.DB.Where("date = ? AND latitude = ? AND longitude = ?", date, coordKey(lat), coordKey(lng)).
				First(&existing).Error; lookupErr == nil {
				return &existing, nil
			}
		} else {
			log.Warnf("⚠️ Could not cache prayer times: %v", err)
		}
	}
	return row, nil
}

func (s *PrayerTimesService) fetchFromProvider(date string, lat, lng float64, method int) (*models.PrayerTimesCache, error) {
	// AlAdhan expects DD-MM-YYYY in the path.
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("bad date %q: %w", date, err)
	}

	u := fmt.Sprintf("%s/v1/timings/%s?%s", s.BaseURL, day.Format("02-01-2006"), url.Values{
		"latitude":  {coordKey(lat)},
		"longitude": {coordKey(lng)},
		"method":    {strconv.Itoa(method)},
	}.Encode())

	resp, err := s.Client.Get(u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned %d", resp.StatusCode)
	}

	var out providerResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	timings := out.Data.Timings
	if len(timings) == 0 {
		return nil, fmt.Errorf("provider returned no timings")
	}

	return &models.PrayerTimesCache{
		ID:        uuid.NewString(),
		Date:      date,
		Latitude:  coordKey(lat),
		Longitude: coordKey(lng),
		Method:    method,
		Fajr:      timings["Fajr"],
		Dhuhr:     timings["Dhuhr"],
		Asr:       timings["Asr"],
		Maghrib:   timings["Maghrib"],
		Isha:      timings["Isha"],
		Source:    "provider",
	}, nil
}

func (s *PrayerTimesService) fallbackRow(date string, lat, lng float64, method int) *models.PrayerTimesCache {
	return &models.PrayerTimesCache{
		ID:        uuid.NewString(),
		Date:      date,
		Latitude:  coordKey(lat),
		Longitude: coordKey(lng),
		Method:    method,
		Fajr:      defaultTimings[models.PrayerFajr],
		Dhuhr:     defaultTimings[models.PrayerDhuhr],
		Asr:       defaultTimings[models.PrayerAsr],
		Maghrib:   defaultTimings[models.PrayerMaghrib],
		Isha:      defaultTimings[models.PrayerIsha],
		Source:    "fallback",
	}
}

// StartPrefetchScheduler warms the cache for the configured default location
// shortly after midnight so the first morning lookups never wait on the
// provider. Returns nil when no default location is configured or the
// scheduler could not be set up; the caller shuts the returned scheduler down
// on exit.
func (s *PrayerTimesService) StartPrefetchScheduler() gocron.Scheduler {
	lat, errLat := strconv.ParseFloat(os.Getenv("DEFAULT_LATITUDE"), 64)
	lng, errLng := strconv.ParseFloat(os.Getenv("DEFAULT_LONGITUDE"), 64)
	if errLat != nil || errLng != nil {
		log.Info("ℹ️ DEFAULT_LATITUDE/DEFAULT_LONGITUDE not set, prayer times prefetch disabled")
		return nil
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Errorf("❌ Could not create prayer times scheduler, prefetch disabled: %v", err)
		return nil
	}

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 15, 0))),
		gocron.NewTask(func() {
			if _, err := s.GetPrayerTimes(utils.TodayKey(), lat, lng, 0); err != nil {
				log.Warnf("[Scheduler] Prayer times prefetch failed: %v", err)
			} else {
				log.Infof("✅ Prefetched prayer times for %s", utils.TodayKey())
			}
		}),
	)
	if err != nil {
		log.Errorf("❌ Could not schedule prayer times prefetch: %v", err)
		_ = sched.Shutdown()
		return nil
	}

	sched.Start()
	return sched
}
