package ingest

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
)

const (
	DefaultBOMFTPHost = "ftp.bom.gov.au:21"
	coastalWatersFile = "/anon/gen/fwo/IDV10460.xml"
)

// BOMClient fetches the Victorian coastal waters forecast over anonymous FTP.
type BOMClient struct {
	host string
	file string
	loc  *time.Location
}

func NewBOMClient(host string, loc *time.Location) *BOMClient {
	if host == "" {
		host = DefaultBOMFTPHost
	}
	return &BOMClient{host: host, file: coastalWatersFile, loc: loc}
}

type bomProduct struct {
	XMLName  xml.Name       `xml:"product"`
	Amoc     bomAmoc        `xml:"amoc"`
	Forecast bomForecastDoc `xml:"forecast"`
}

type bomAmoc struct {
	IssueTime string `xml:"issue-time-utc"`
}

type bomForecastDoc struct {
	Areas []bomArea `xml:"area"`
}

type bomArea struct {
	AAC         string              `xml:"aac,attr"`
	Description string              `xml:"description,attr"`
	Type        string              `xml:"type,attr"`
	Periods     []bomForecastPeriod `xml:"forecast-period"`
}

type bomForecastPeriod struct {
	Index     int       `xml:"index,attr"`
	StartTime string    `xml:"start-time-utc,attr"`
	TextItems []bomText `xml:"text"`
}

type bomText struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// FetchCoastal downloads the product and returns forecasts for every
// coastal zone in it along with the raw XML.
func (b *BOMClient) FetchCoastal(ctx context.Context) ([]models.CoastalForecast, []byte, *FetchResult, error) {
	result := &FetchResult{}

	conn, err := ftp.Dial(b.host, ftp.DialWithTimeout(30*time.Second), ftp.DialWithContext(ctx))
	if err != nil {
		result.Error = fmt.Errorf("ftp dial: %w", err)
		return nil, nil, result, result.Error
	}
	defer conn.Quit()

	if err := conn.Login("anonymous", "anonymous"); err != nil {
		result.Error = fmt.Errorf("ftp login: %w", err)
		return nil, nil, result, result.Error
	}

	resp, err := conn.Retr(b.file)
	if err != nil {
		result.Error = fmt.Errorf("ftp retr: %w", err)
		return nil, nil, result, result.Error
	}
	defer resp.Close()

	body, err := io.ReadAll(resp)
	if err != nil {
		result.Error = fmt.Errorf("read body: %w", err)
		return nil, nil, result, result.Error
	}
	result.ResponseSize = len(body)

	forecasts, err := ParseCoastalWaters(body, b.loc, time.Now().UTC())
	if err != nil {
		result.ParseErrors++
		result.ParseError = err.Error()
		result.Error = err
		return nil, body, result, err
	}
	result.RecordCount = len(forecasts)
	return forecasts, body, result, nil
}

// ParseCoastalWaters extracts winds, seas, swell and weather text per
// coastal zone and forecast day.
func ParseCoastalWaters(body []byte, loc *time.Location, fetchedAt time.Time) ([]models.CoastalForecast, error) {
	var product bomProduct
	if err := xml.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("unmarshal xml: %w", err)
	}

	issued, err := time.Parse(time.RFC3339, strings.TrimSpace(product.Amoc.IssueTime))
	if err != nil {
		return nil, fmt.Errorf("parse issue time: %w", err)
	}

	var out []models.CoastalForecast
	for _, area := range product.Forecast.Areas {
		if area.Type != "coast" {
			continue
		}
		for _, p := range area.Periods {
			start, err := time.Parse(time.RFC3339, p.StartTime)
			if err != nil {
				continue
			}
			fc := models.CoastalForecast{
				AreaCode:  area.AAC,
				AreaName:  area.Description,
				ValidDate: start.In(loc).Format(time.DateOnly),
				DayIndex:  p.Index,
				IssuedAt:  issued,
				FetchedAt: fetchedAt,
			}
			var swells []string
			for _, t := range p.TextItems {
				v := strings.Join(strings.Fields(t.Value), " ")
				switch t.Type {
				case "forecast_winds":
					fc.Winds = v
				case "forecast_seas":
					fc.Seas = v
				case "forecast_swell1", "forecast_swell2":
					swells = append(swells, v)
				case "forecast_weather":
					fc.Weather = v
				}
			}
			fc.Swell = strings.Join(swells, " ")
			out = append(out, fc)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no coastal areas in product")
	}
	return out, nil
}
