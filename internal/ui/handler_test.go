package ui_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gitea.jw6.us/james/traindesk/internal/cache"
	"gitea.jw6.us/james/traindesk/internal/config"
	"gitea.jw6.us/james/traindesk/internal/derive"
	"gitea.jw6.us/james/traindesk/internal/domain"
	httpserver "gitea.jw6.us/james/traindesk/internal/http"
	"gitea.jw6.us/james/traindesk/internal/remote"
	"gitea.jw6.us/james/traindesk/internal/testsupport"
)

type testApp struct {
	records *testsupport.RecordStore
	store   *cache.Cache
	srv     *httptest.Server
	client  *http.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	records := testsupport.NewRecordStore()
	t.Cleanup(records.Close)

	cfg := &config.Config{
		ListenAddr: ":0",
		BaseURL:    "http://localhost:8080",
	}
	cfg.Remote.BaseURL = records.URL()

	client := remote.NewClient(cfg.Remote.BaseURL)
	store := cache.New(client)

	srv := httptest.NewServer(httpserver.NewRouter(cfg, client, store, derive.DefaultPalette()))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		records: records,
		store:   store,
		srv:     srv,
		client:  &http.Client{Jar: jar},
	}
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.srv.URL + path)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, string(body)
}

// csrfToken fetches a page so the middleware issues the token cookie, then
// reads it back from the jar.
func (a *testApp) csrfToken(t *testing.T) string {
	t.Helper()
	resp, _ := a.get(t, "/customers")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	base, err := url.Parse(a.srv.URL)
	require.NoError(t, err)
	for _, c := range a.client.Jar.Cookies(base) {
		if c.Name == "traindesk_csrf" {
			return c.Value
		}
	}
	t.Fatal("csrf cookie not issued")
	return ""
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.srv.URL+path, form)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, string(body)
}

func domainCustomer(first, last string) domain.Customer {
	return domain.Customer{
		FirstName:     first,
		LastName:      last,
		Email:         strings.ToLower(first) + "@example.com",
		Phone:         "1234567890",
		StreetAddress: "Esimerkkikatu 1",
		Postcode:      "00100",
		City:          "Helsinki",
	}
}

func customerForm(token string) url.Values {
	return url.Values{
		"_csrf":         {token},
		"firstname":     {"Matti"},
		"lastname":      {"Meikäläinen"},
		"email":         {"matti@example.com"},
		"phone":         {"1234567890"},
		"streetaddress": {"Esimerkkikatu 1"},
		"postcode":      {"00100"},
		"city":          {"Helsinki"},
	}
}

func TestPagesRender(t *testing.T) {
	app := newTestApp(t)
	custID := app.records.SeedCustomer(domainCustomer("Siiri", "Pelkonen"))
	app.records.SeedTraining("2024-11-20T10:00:00.000+00:00", "Jogging", 60, custID)

	tests := []struct {
		path     string
		contains string
	}{
		{path: "/", contains: "Dashboard"},
		{path: "/customers", contains: "Siiri"},
		{path: "/trainings", contains: "Jogging"},
		{path: "/calendar", contains: "Jogging - Siiri Pelkonen"},
		{path: "/statistics", contains: "Jogging"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			resp, body := app.get(t, tc.path)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.Contains(t, body, tc.contains)
		})
	}
}

func TestTrainingWithDeletedCustomerRendersFallback(t *testing.T) {
	app := newTestApp(t)
	app.records.SeedTraining("2024-11-20T10:00:00.000+00:00", "Yoga", 45, "gone")

	resp, body := app.get(t, "/trainings")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, derive.MissingCustomer)
}

func TestCreateCustomerRoundTrip(t *testing.T) {
	app := newTestApp(t)
	token := app.csrfToken(t)

	resp, body := app.postForm(t, "/customers", customerForm(token))

	// The client follows the redirect back to the list page.
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "/customers", resp.Request.URL.Path)
	require.Equal(t, "created", resp.Request.URL.Query().Get("status"))
	require.Contains(t, body, "Matti")
	require.Equal(t, 1, app.records.CustomerCount())
}

func TestCreateCustomerValidationFailureDoesNotWrite(t *testing.T) {
	app := newTestApp(t)
	token := app.csrfToken(t)

	form := customerForm(token)
	form.Set("email", "not-an-address")
	form.Set("city", "")

	resp, _ := app.postForm(t, "/customers", form)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Request.URL.Query().Get("error"))
	require.Equal(t, 0, app.records.CustomerCount())
}

func TestUpdateCustomerRoundTrip(t *testing.T) {
	app := newTestApp(t)
	custID := app.records.SeedCustomer(domainCustomer("Siiri", "Pelkonen"))
	token := app.csrfToken(t)

	// The edit form posts with a _method override, the way the template does.
	form := customerForm(token)
	form.Set("_method", "PUT")
	form.Set("firstname", "Maija")
	resp, body := app.postForm(t, "/customers/"+custID, form)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "/customers", resp.Request.URL.Path)
	require.Equal(t, "updated", resp.Request.URL.Query().Get("status"))
	require.Contains(t, body, "Maija")
	require.NotContains(t, body, "Siiri")
	require.Equal(t, 1, app.records.CustomerCount())
}

func TestUpdateCustomerValidationFailureDoesNotWrite(t *testing.T) {
	app := newTestApp(t)
	custID := app.records.SeedCustomer(domainCustomer("Siiri", "Pelkonen"))
	token := app.csrfToken(t)

	form := customerForm(token)
	form.Set("_method", "PUT")
	form.Set("email", "not-an-address")
	resp, body := app.postForm(t, "/customers/"+custID, form)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Request.URL.Query().Get("error"))
	require.Contains(t, body, "Siiri")
}

func TestMutationWithoutCSRFTokenIsRejected(t *testing.T) {
	app := newTestApp(t)
	app.csrfToken(t)

	form := customerForm("")
	form.Del("_csrf")
	resp, _ := app.postForm(t, "/customers", form)

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, 0, app.records.CustomerCount())
}

func TestMutationWithWrongCSRFTokenIsRejected(t *testing.T) {
	app := newTestApp(t)
	app.csrfToken(t)

	resp, _ := app.postForm(t, "/customers", customerForm("not-the-token"))

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, 0, app.records.CustomerCount())
}

func TestDeleteCustomerKeepsTrainings(t *testing.T) {
	app := newTestApp(t)
	custID := app.records.SeedCustomer(domainCustomer("Siiri", "Pelkonen"))
	app.records.SeedTraining("2024-11-20T10:00:00.000+00:00", "Jogging", 60, custID)
	token := app.csrfToken(t)

	resp, _ := app.postForm(t, "/customers/"+custID+"/delete", url.Values{"_csrf": {token}})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "deleted", resp.Request.URL.Query().Get("status"))
	require.Equal(t, 0, app.records.CustomerCount())
	require.Equal(t, 1, app.records.TrainingCount())

	_, body := app.get(t, "/trainings")
	require.Contains(t, body, derive.MissingCustomer)
}

func TestCreateAndDeleteTraining(t *testing.T) {
	app := newTestApp(t)
	custID := app.records.SeedCustomer(domainCustomer("Siiri", "Pelkonen"))
	token := app.csrfToken(t)

	resp, _ := app.postForm(t, "/trainings", url.Values{
		"_csrf":    {token},
		"date":     {"2024-11-20T10:00"},
		"duration": {"60"},
		"activity": {"Jogging"},
		"customer": {custID},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "created", resp.Request.URL.Query().Get("status"))
	require.Equal(t, 1, app.records.TrainingCount())

	trainings := app.store.Trainings()
	require.Len(t, trainings, 1)

	resp, _ = app.postForm(t, "/trainings/"+trainings[0].ID+"/delete", url.Values{"_csrf": {token}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "deleted", resp.Request.URL.Query().Get("status"))
	require.Equal(t, 0, app.records.TrainingCount())
}

func TestCreateTrainingRejectsEmptySelection(t *testing.T) {
	app := newTestApp(t)
	token := app.csrfToken(t)

	resp, _ := app.postForm(t, "/trainings", url.Values{
		"_csrf":    {token},
		"date":     {"2024-11-20T10:00"},
		"duration": {"60"},
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Request.URL.Query().Get("error"))
	require.Equal(t, 0, app.records.TrainingCount())
}

func TestOutageShowsStaleSnapshotWithError(t *testing.T) {
	app := newTestApp(t)
	app.records.SeedCustomer(domainCustomer("Siiri", "Pelkonen"))

	resp, body := app.get(t, "/customers")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Siiri")

	app.records.SetFailing(true)

	resp, body = app.get(t, "/customers")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Siiri")
	require.Contains(t, body, "unavailable")
}

func TestOutageBlocksMutations(t *testing.T) {
	app := newTestApp(t)
	custID := app.records.SeedCustomer(domainCustomer("Siiri", "Pelkonen"))
	token := app.csrfToken(t)

	app.records.SetFailing(true)

	resp, _ := app.postForm(t, "/customers/"+custID+"/delete", url.Values{"_csrf": {token}})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Request.URL.Query().Get("error"), "unavailable")

	app.records.SetFailing(false)
	require.Equal(t, 1, app.records.CustomerCount())
}

func TestExportCustomersCSV(t *testing.T) {
	app := newTestApp(t)
	app.records.SeedCustomer(domainCustomer("Siiri", "Pelkonen"))

	resp, body := app.get(t, "/customers/export.csv")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/csv")

	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "firstname,lastname,email,phone,streetaddress,postcode,city", strings.TrimSpace(lines[0]))
	require.Contains(t, lines[1], "Siiri")
}

func TestExportCalendarICS(t *testing.T) {
	app := newTestApp(t)
	custID := app.records.SeedCustomer(domainCustomer("Siiri", "Pelkonen"))
	trainingID := app.records.SeedTraining("2024-11-20T10:00:00.000+00:00", "Jogging", 60, custID)

	resp, body := app.get(t, "/calendar/export.ics")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/calendar")
	require.Contains(t, body, "BEGIN:VCALENDAR")
	require.Contains(t, body, "UID:"+trainingID+"@traindesk")
	require.Contains(t, body, "DTSTART:20241120T100000Z")
	require.Contains(t, body, "DTEND:20241120T110000Z")
	require.Contains(t, body, "SUMMARY:Jogging - Siiri Pelkonen")
	require.True(t, strings.HasSuffix(body, "END:VCALENDAR\r\n"))
}

func TestCalendarEventsFeed(t *testing.T) {
	app := newTestApp(t)
	custID := app.records.SeedCustomer(domainCustomer("Siiri", "Pelkonen"))
	app.records.SeedTraining("2024-11-20T10:00:00.000+00:00", "Jogging", 60, custID)

	resp, body := app.get(t, "/api/calendar/events")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var events []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Color string `json:"color"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &events))
	require.Len(t, events, 1)
	require.Equal(t, "Jogging - Siiri Pelkonen", events[0].Title)
	require.Equal(t, "#FF4B4B", events[0].Color)
}

func TestStatisticsFeed(t *testing.T) {
	app := newTestApp(t)
	custID := app.records.SeedCustomer(domainCustomer("Siiri", "Pelkonen"))
	app.records.SeedTraining("2024-11-20T10:00:00.000+00:00", "Jogging", 30, custID)
	app.records.SeedTraining("2024-11-21T10:00:00.000+00:00", "Yoga", 90, custID)
	app.records.SeedTraining("2024-11-22T10:00:00.000+00:00", "Jogging", 45, custID)

	resp, body := app.get(t, "/api/statistics")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats []struct {
		Activity      string `json:"activity"`
		TotalDuration int    `json:"totalDuration"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &stats))
	require.Len(t, stats, 2)
	require.Equal(t, "Yoga", stats[0].Activity)
	require.Equal(t, 90, stats[0].TotalDuration)
	require.Equal(t, "Jogging", stats[1].Activity)
	require.Equal(t, 75, stats[1].TotalDuration)
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.get(t, "/readyz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	app.records.SetFailing(true)
	resp, _ = app.get(t, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
