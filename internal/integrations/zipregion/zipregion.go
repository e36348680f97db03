package zipregion

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/beevik/etree"
	"github.com/domus-lending/quote-service/internal/config"
	"github.com/sirupsen/logrus"
)

// Region is the resolved location for a postal code, used only to pre-fill
// the property state on the intake form.
type Region struct {
	Zip   string `json:"zip"`
	City  string `json:"city"`
	State string `json:"state"`
}

// Client handles integration with the postal city/state lookup service
type Client struct {
	url    string
	userID string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new lookup client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:    cfg.ZipLookupURL,
		userID: cfg.ZipLookupUserID,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// buildLookupXML creates a CityStateLookup request document
func (c *Client) buildLookupXML(zip string) string {
	return fmt.Sprintf(`<CityStateLookupRequest USERID="%s">
		<ZipCode ID="0">
			<Zip5>%s</Zip5>
		</ZipCode>
	</CityStateLookupRequest>`, c.userID, zip)
}

// sendRequest sends the lookup request to the postal service
func (c *Client) sendRequest(lookupXML string) ([]byte, error) {
	params := url.Values{}
	params.Set("API", "CityStateLookup")
	params.Set("XML", lookupXML)

	resp, err := c.client.Get(c.url + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	// Log the raw XML response for debugging
	c.log.Debugf("Zip lookup XML response: %s", string(body))

	return body, nil
}

// parseXMLResponse parses the XML response to extract city and state
func (c *Client) parseXMLResponse(zip string, rawBody []byte) (*Region, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	if errElem := doc.FindElement("//Error/Description"); errElem != nil {
		return nil, fmt.Errorf("lookup service error: %s", errElem.Text())
	}

	zipElem := doc.FindElement("//CityStateLookupResponse/ZipCode")
	if zipElem == nil {
		return nil, fmt.Errorf("no zip code data found in XML")
	}

	cityElem := zipElem.FindElement("./City")
	stateElem := zipElem.FindElement("./State")
	if cityElem == nil || stateElem == nil {
		return nil, fmt.Errorf("city or state element not found in XML")
	}

	return &Region{
		Zip:   zip,
		City:  cityElem.Text(),
		State: stateElem.Text(),
	}, nil
}

// Lookup resolves a five-digit postal code to its city and state.
func (c *Client) Lookup(zip string) (*Region, error) {
	if len(zip) != 5 {
		return nil, fmt.Errorf("invalid zip code: %q", zip)
	}

	body, err := c.sendRequest(c.buildLookupXML(zip))
	if err != nil {
		return nil, err
	}

	region, err := c.parseXMLResponse(zip, body)
	if err != nil {
		return nil, err
	}

	c.log.Infof("Resolved zip %s to %s, %s", zip, region.City, region.State)
	return region, nil
}
