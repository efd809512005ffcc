package upstream

import (
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://apis.mytel.com.mm"

// Language sent with every quest call.
const Language = "EN"

// Endpoints builds upstream URLs from a base URL.
type Endpoints struct {
	BaseURL string
}

func (e Endpoints) base() string {
	if e.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(e.BaseURL, "/")
}

// DailyQuestInfo is the GET endpoint listing quest days for msisdn.
func (e Endpoints) DailyQuestInfo(msisdn string) string {
	return e.base() + "/myid/daily-quest/v3.1/api/quest/get-info-daily-quest/" +
		url.PathEscape(msisdn) + "?language=" + Language
}

// SendReward is the POST endpoint claiming a quest day.
func (e Endpoints) SendReward() string {
	return e.base() + "/myid/daily-quest/v3.1/api/quest/send-reward"
}

// NetworkTestSubmit is the POST endpoint receiving network test samples.
func (e Endpoints) NetworkTestSubmit() string {
	return e.base() + "/network-test/v3/submit"
}

// QuestHeaders are sent with both daily quest calls.
func QuestHeaders(accessToken string) http.Header {
	h := make(http.Header)
	h.Set("Authorization", "Bearer "+accessToken)
	h.Set("Content-Type", "application/json")
	return h
}

// NetworkTestHeaders mirror the mobile app's request headers. Accept-Encoding
// is left to the transport so gzip bodies are decompressed transparently.
func NetworkTestHeaders(accessToken, userAgent string) http.Header {
	h := make(http.Header)
	h.Set("Accept", "application/json")
	h.Set("Accept-Language", Language)
	h.Set("Authorization", "Bearer "+accessToken)
	h.Set("Content-Type", "application/json")
	h.Set("User-Agent", userAgent)
	return h
}

// QuestDay is one entry of the quest day list.
type QuestDay struct {
	Day        int  `json:"day"`
	CurrentDay bool `json:"currentDay"`
}

// QuestInfo is the body returned by DailyQuestInfo.
type QuestInfo struct {
	Message *string `json:"message"`
	Result  struct {
		DaysList []QuestDay `json:"daysList"`
	} `json:"result"`
}

// CurrentDay returns the first day flagged as current. Day 0 counts as none.
func (q QuestInfo) CurrentDay() (int, bool) {
	for _, d := range q.Result.DaysList {
		if d.CurrentDay {
			return d.Day, d.Day != 0
		}
	}
	return 0, false
}

// RewardRequest is the body posted to SendReward.
type RewardRequest struct {
	MSISDN    string `json:"msisdn"`
	Language  string `json:"language"`
	DayNumber int    `json:"dayNumber"`
}

// RewardResponse is the body returned by SendReward.
type RewardResponse struct {
	Message string `json:"message"`
	Result  bool   `json:"result"`
}

// Fixed network test sample values. The upstream API validates the shape of
// the sample, not the measurements.
const (
	sampleCellID      = "30824726"
	sampleDeviceModel = "IPHONE 14"
	sampleDownload    = 99.5
	sampleENB         = "120409"
	sampleLatency     = 62.625
	sampleLatitude    = "15.3943318"
	sampleLocation    = "Mon State, Myanmar (Burma)"
	sampleLongitude   = "97.8913799"
	sampleNetworkType = "_4G"
	sampleRecordID    = "12be4567-e89b-12d3-a456-426655444212"
	sampleRequestTime = "2023-10-19T05:51:08.433"
	sampleRSRP        = "-97"
	sampleTownship    = "Mon State"
	sampleUpload      = 95.1
)

// NetworkTestSample is the body posted to NetworkTestSubmit. Field order
// follows the mobile app.
type NetworkTestSample struct {
	CellID        string  `json:"cellId"`
	DeviceModel   string  `json:"deviceModel"`
	DownloadSpeed float64 `json:"downloadSpeed"`
	ENB           string  `json:"enb"`
	Latency       float64 `json:"latency"`
	Latitude      string  `json:"latitude"`
	Location      string  `json:"location"`
	Longitude     string  `json:"longitude"`
	MSISDN        string  `json:"msisdn"`
	NetworkType   string  `json:"networkType"`
	Operator      string  `json:"operator"`
	RequestID     string  `json:"requestId"`
	RequestTime   string  `json:"requestTime"`
	RSRP          string  `json:"rsrp"`
	TestRecordID  string  `json:"testRecordID"`
	Township      string  `json:"township"`
	UploadSpeed   float64 `json:"uploadSpeed"`
}

// NewNetworkTestSample builds the fixed sample for an international msisdn
// and operator.
func NewNetworkTestSample(msisdn, operator string) NetworkTestSample {
	return NetworkTestSample{
		CellID:        sampleCellID,
		DeviceModel:   sampleDeviceModel,
		DownloadSpeed: sampleDownload,
		ENB:           sampleENB,
		Latency:       sampleLatency,
		Latitude:      sampleLatitude,
		Location:      sampleLocation,
		Longitude:     sampleLongitude,
		MSISDN:        msisdn,
		NetworkType:   sampleNetworkType,
		Operator:      operator,
		RequestID:     sampleRecordID,
		RequestTime:   sampleRequestTime,
		RSRP:          sampleRSRP,
		TestRecordID:  sampleRecordID,
		Township:      sampleTownship,
		UploadSpeed:   sampleUpload,
	}
}
