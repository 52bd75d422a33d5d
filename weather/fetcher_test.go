package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const beijingJ1 = `{
  "current_condition": [
    {
      "FeelsLikeC": "8",
      "humidity": "60",
      "temp_C": "10",
      "visibility": "10",
      "weatherDesc": [{"value": "Clear"}],
      "windspeedKmph": "18"
    }
  ],
  "nearest_area": [{"areaName": [{"value": "Beijing"}]}]
}`

var _ = Describe("Fetcher", func() {
	var (
		provider  *httptest.Server
		mu        sync.Mutex
		lastPath  string
		lastQuery string
		lastAgent string
		status    int
		body      string
		fetcher   *Fetcher
		fixedNow  time.Time
	)

	setResponse := func(code int, payload string) {
		mu.Lock()
		defer mu.Unlock()
		status, body = code, payload
	}

	lastRequest := func() (string, string, string) {
		mu.Lock()
		defer mu.Unlock()
		return lastPath, lastQuery, lastAgent
	}

	BeforeEach(func() {
		setResponse(http.StatusOK, beijingJ1)
		provider = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			lastPath = r.URL.Path
			lastQuery = r.URL.RawQuery
			lastAgent = r.Header.Get("User-Agent")
			code, payload := status, body
			mu.Unlock()
			w.WriteHeader(code)
			fmt.Fprint(w, payload)
		}))
		fetcher = NewFetcher(provider.URL, "Weather-MCP-Server/1.0", 2*time.Second)
		fixedNow = time.Date(2026, 10, 14, 9, 5, 3, 0, time.Local)
		fetcher.now = func() time.Time { return fixedNow }
	})

	AfterEach(func() {
		provider.Close()
	})

	Context("successful lookups", func() {
		It("should normalize the provider payload", func() {
			record, err := fetcher.Fetch(context.Background(), "北京")
			Expect(err).NotTo(HaveOccurred())
			Expect(*record).To(Equal(WeatherRecord{
				City:        "北京",
				Temperature: 10.0,
				FeelsLike:   8.0,
				Humidity:    60,
				Condition:   "Clear",
				WindSpeed:   5.0,
				Visibility:  10.0,
				Timestamp:   "2026-10-14 09:05:03",
			}))
		})

		It("should request the resolved location in j1 format with the client header", func() {
			_, err := fetcher.Fetch(context.Background(), "西安")
			Expect(err).NotTo(HaveOccurred())
			path, query, agent := lastRequest()
			Expect(path).To(Equal("/Xi'an"))
			Expect(query).To(Equal("format=j1"))
			Expect(agent).To(Equal("Weather-MCP-Server/1.0"))
		})

		It("should forward unknown names unchanged", func() {
			record, err := fetcher.Fetch(context.Background(), "New York")
			Expect(err).NotTo(HaveOccurred())
			path, _, _ := lastRequest()
			Expect(path).To(Equal("/New York"))
			Expect(record.City).To(Equal("New York"))
		})

		It("should accept numeric fields encoded as JSON numbers", func() {
			setResponse(http.StatusOK, `{"current_condition":[{"temp_C":-3.5,"FeelsLikeC":-7,"humidity":81,
				"weatherDesc":[{"value":"Light snow"}],"windspeedKmph":37,"visibility":4}]}`)
			record, err := fetcher.Fetch(context.Background(), "哈尔滨")
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Temperature).To(Equal(-3.5))
			Expect(record.FeelsLike).To(Equal(-7.0))
			Expect(record.Humidity).To(Equal(81))
			Expect(record.WindSpeed).To(Equal(10.3))
			Expect(record.Visibility).To(Equal(4.0))
		})

		It("should stamp the record with the local time of extraction", func() {
			fetcher.now = time.Now
			record, err := fetcher.Fetch(context.Background(), "北京")
			Expect(err).NotTo(HaveOccurred())
			ts, err := time.ParseInLocation(timestampLayout, record.Timestamp, time.Local)
			Expect(err).NotTo(HaveOccurred())
			Expect(ts).To(BeTemporally("~", time.Now(), 2*time.Second))
		})
	})

	Context("failures", func() {
		It("should report non-200 statuses", func() {
			setResponse(http.StatusInternalServerError, "oops")
			_, err := fetcher.Fetch(context.Background(), "北京")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("500"))

			var fetchErr *FetchError
			Expect(errors.As(err, &fetchErr)).To(BeTrue())
			Expect(fetchErr.City).To(Equal("北京"))
		})

		It("should report bodies that are not JSON", func() {
			setResponse(http.StatusOK, "Unknown location; please try ~39.9,116.4")
			_, err := fetcher.Fetch(context.Background(), "北京")
			Expect(err).To(MatchError(ContainSubstring("failed to parse weather data")))
		})

		It("should report a missing current_condition array", func() {
			setResponse(http.StatusOK, `{"nearest_area":[]}`)
			_, err := fetcher.Fetch(context.Background(), "北京")
			Expect(err).To(MatchError(ContainSubstring("current_condition")))
		})

		It("should report an empty current_condition array", func() {
			setResponse(http.StatusOK, `{"current_condition":[]}`)
			_, err := fetcher.Fetch(context.Background(), "北京")
			Expect(err).To(MatchError(ContainSubstring("current_condition")))
		})

		It("should report missing fields", func() {
			setResponse(http.StatusOK, `{"current_condition":[{"temp_C":"10","humidity":"60","weatherDesc":[{"value":"Clear"}],"windspeedKmph":"18","visibility":"10"}]}`)
			_, err := fetcher.Fetch(context.Background(), "北京")
			Expect(err).To(MatchError(ContainSubstring("FeelsLikeC")))
		})

		It("should report an empty weatherDesc", func() {
			setResponse(http.StatusOK, `{"current_condition":[{"temp_C":"10","FeelsLikeC":"8","humidity":"60","weatherDesc":[],"windspeedKmph":"18","visibility":"10"}]}`)
			_, err := fetcher.Fetch(context.Background(), "北京")
			Expect(err).To(MatchError(ContainSubstring("weatherDesc")))
		})

		It("should report values that are not numbers", func() {
			setResponse(http.StatusOK, `{"current_condition":[{"temp_C":"warm","FeelsLikeC":"8","humidity":"60","weatherDesc":[{"value":"Clear"}],"windspeedKmph":"18","visibility":"10"}]}`)
			_, err := fetcher.Fetch(context.Background(), "北京")
			Expect(err).To(MatchError(ContainSubstring("temp_C")))
		})

		It("should report fields of the wrong JSON type", func() {
			setResponse(http.StatusOK, `{"current_condition":[{"temp_C":true,"FeelsLikeC":"8","humidity":"60","weatherDesc":[{"value":"Clear"}],"windspeedKmph":"18","visibility":"10"}]}`)
			_, err := fetcher.Fetch(context.Background(), "北京")
			Expect(err).To(HaveOccurred())
		})

		It("should time out instead of hanging", func() {
			slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			}))
			defer slow.Close()

			f := NewFetcher(slow.URL, "test", 50*time.Millisecond)
			start := time.Now()
			_, err := f.Fetch(context.Background(), "北京")
			Expect(err).To(MatchError(ContainSubstring("failed to fetch weather data")))
			Expect(time.Since(start)).To(BeNumerically("<", time.Second))
		})

		It("should abandon the request when the caller cancels", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := fetcher.Fetch(ctx, "北京")
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})

		It("should report connection failures", func() {
			f := NewFetcher("http://127.0.0.1:1", "test", time.Second)
			_, err := f.Fetch(context.Background(), "北京")
			Expect(err).To(MatchError(ContainSubstring("failed to fetch weather data")))
		})
	})

	Context("wind speed conversion", func() {
		DescribeTable("divides km/h by 3.6 and rounds to one decimal",
			func(kmph, mps float64) {
				Expect(kmphToMps(kmph)).To(Equal(mps))
			},
			Entry("36 km/h", 36.0, 10.0),
			Entry("3.6 km/h", 3.6, 1.0),
			Entry("37 km/h", 37.0, 10.3),
			Entry("18 km/h", 18.0, 5.0),
			Entry("calm", 0.0, 0.0),
			Entry("7 km/h", 7.0, 1.9),
		)
	})

	It("should trim a trailing slash from the base URL", func() {
		f := NewFetcher("https://wttr.in/", "test", time.Second)
		Expect(f.requestURL("Beijing")).To(Equal("https://wttr.in/Beijing?format=j1"))
	})
})
