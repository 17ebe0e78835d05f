package cbr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dan9191/bank-cards/internal/config"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Rate is one official currency quotation against the rouble.
type Rate struct {
	Code string          `json:"code"`
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

// Client handles integration with the Central Bank of Russia daily
// rates service. The rates are informational; no money movement in
// this service converts currency.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new CBR client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.CBRURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// buildSOAPRequest creates a SOAP request for the daily currency rates
func (c *Client) buildSOAPRequest() string {
	onDate := time.Now().Format("2006-01-02")
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
			<soap12:Body>
				<GetCursOnDate xmlns="http://web.cbr.ru/">
					<On_date>%s</On_date>
				</GetCursOnDate>
			</soap12:Body>
		</soap12:Envelope>`, onDate)
}

// sendRequest sends a SOAP request to CBR
func (c *Client) sendRequest(ctx context.Context, soapRequest string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBufferString(soapRequest))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/GetCursOnDate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("CBR XML response: %s", string(body))
	return body, nil
}

// parseXMLResponse extracts the currency quotations from the response
func (c *Client) parseXMLResponse(rawBody []byte) ([]Rate, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	elements := doc.FindElements("//ValuteCursOnDate")
	if len(elements) == 0 {
		return nil, fmt.Errorf("no rate data found in XML")
	}

	var rates []Rate
	for _, el := range elements {
		code := el.FindElement("./VchCode")
		name := el.FindElement("./Vname")
		curs := el.FindElement("./Vcurs")
		if code == nil || curs == nil {
			continue
		}

		value, err := decimal.NewFromString(curs.Text())
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate for %s: %w", code.Text(), err)
		}

		rate := Rate{Code: code.Text(), Rate: value}
		if name != nil {
			rate.Name = name.Text()
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

// GetDailyRates retrieves today's official currency rates from CBR
func (c *Client) GetDailyRates(ctx context.Context) ([]Rate, error) {
	body, err := c.sendRequest(ctx, c.buildSOAPRequest())
	if err != nil {
		return nil, err
	}

	rates, err := c.parseXMLResponse(body)
	if err != nil {
		return nil, err
	}

	c.log.Infof("Retrieved %d currency rates from CBR", len(rates))
	return rates, nil
}
