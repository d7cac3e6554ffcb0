package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopiggo/geoclean/internal/utils"
	"github.com/shopiggo/geoclean/pkg/storage"
)

// DefaultRetailerCollection is where advertiser lookups land.
const DefaultRetailerCollection = "retailer-cj"

// AdvertiserQuery selects which advertisers to fetch. Exactly one selector
// must be set; "joined" / "notjoined" are accepted advertiser-ids values.
type AdvertiserQuery struct {
	AdvertiserIDs  string
	Keywords       string
	AdvertiserName string
}

func (q AdvertiserQuery) validate() error {
	set := 0
	for _, v := range []string{q.AdvertiserIDs, q.Keywords, q.AdvertiserName} {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	if set != 1 {
		return errors.New("provide exactly one of advertiser-ids, keywords, or advertiser-name")
	}
	return nil
}

// SyncResult summarizes one ingestion run.
type SyncResult struct {
	Collection string
	Pages      int
	Fetched    int
	Upserted   int
}

// SyncAdvertisers pages through the CJ Advertiser Lookup API and
// merge-upserts every advertiser into the retailer collection. Doc ids are
// `cj-<slug(name)>-<advertiserId>` so re-runs land on the same documents.
func (c *Client) SyncAdvertisers(ctx context.Context, db *storage.DB, collection string, q AdvertiserQuery) (*SyncResult, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if c.RequestorCID == "" || c.Token == "" {
		return nil, errors.New("missing cj.cid or cj.token configuration")
	}
	if collection == "" {
		collection = DefaultRetailerCollection
	}

	result := &SyncResult{Collection: collection}

	for page := 1; page <= c.MaxPages; page++ {
		u, _ := url.Parse(c.advertiserLookupURL)
		params := u.Query()
		params.Set("requestor-cid", c.RequestorCID)
		params.Set("records-per-page", strconv.Itoa(c.PageSize))
		params.Set("page-number", strconv.Itoa(page))
		switch {
		case q.AdvertiserIDs != "":
			params.Set("advertiser-ids", strings.ReplaceAll(q.AdvertiserIDs, " ", ""))
		case q.Keywords != "":
			params.Set("keywords", q.Keywords)
		default:
			params.Set("advertiser-name", q.AdvertiserName)
		}
		u.RawQuery = params.Encode()

		utils.Log.Debugf("advertiser-lookup: fetching page %d", page)
		body, err := c.fetchXML(ctx, u.String())
		if err != nil {
			return nil, err
		}

		advertisers, err := parseAdvertisers(body)
		if err != nil {
			return nil, err
		}
		if len(advertisers) == 0 {
			break
		}
		result.Pages++
		result.Fetched += len(advertisers)

		for _, fields := range advertisers {
			name, _ := fields["advertiserName"].(string)
			id, _ := fields["advertiserId"].(string)
			docID := fmt.Sprintf("cj-%s-%s", slugify(name), id)
			if err := db.MergeUpsert(ctx, collection, docID, fields); err != nil {
				return nil, err
			}
			result.Upserted++
		}

		if len(advertisers) < c.PageSize {
			break
		}
	}

	utils.Log.Infof("advertiser sync: %d advertisers upserted into %q across %d pages",
		result.Upserted, collection, result.Pages)
	return result, nil
}

// parseAdvertisers pulls advertiser nodes out of a CJ XML response. The CJ
// markup is lowercase and flat enough that the lenient HTML parser handles
// it fine, and goquery selectors beat hand-walking the node tree.
func parseAdvertisers(body []byte) ([]map[string]interface{}, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unparseable advertiser-lookup response: %w", err)
	}

	var out []map[string]interface{}
	doc.Find("advertiser").Each(func(_ int, s *goquery.Selection) {
		id := nodeText(s, "advertiser-id")
		if id == "" {
			return
		}

		fields := map[string]interface{}{
			"advertiserId":   id,
			"advertiserName": nodeText(s, "advertiser-name"),
			"accountStatus":  nodeText(s, "account-status"),
			"programUrl":     nodeText(s, "program-url"),
			"lastSyncedAt":   nowISO(),
		}

		setIfPresent(fields, "relationshipStatus", nodeText(s, "relationship-status"))
		setIfPresent(fields, "language", nodeText(s, "language"))
		setIfPresent(fields, "mobileSupported", nodeText(s, "mobile-supported"))
		setNumIfPresent(fields, "sevenDayEpc", nodeText(s, "seven-day-epc"))
		setNumIfPresent(fields, "threeMonthEpc", nodeText(s, "three-month-epc"))
		setNumIfPresent(fields, "networkRank", nodeText(s, "network-rank"))

		parent := nodeText(s, "primary-category > parent")
		child := nodeText(s, "primary-category > child")
		if parent != "" || child != "" {
			fields["primaryCategory"] = map[string]interface{}{"parent": parent, "child": child}
		}

		var linkTypes []string
		s.Find("link-types > link-type").Each(func(_ int, lt *goquery.Selection) {
			if v := strings.TrimSpace(lt.Text()); v != "" {
				linkTypes = append(linkTypes, v)
			}
		})
		if len(linkTypes) > 0 {
			fields["linkTypes"] = linkTypes
		}

		if d := rootDomain(nodeText(s, "program-url")); d != "" {
			fields["domain"] = d
		}

		out = append(out, fields)
	})
	return out, nil
}

func nodeText(s *goquery.Selection, selector string) string {
	return strings.TrimSpace(s.Find(selector).First().Text())
}

func setIfPresent(fields map[string]interface{}, key, val string) {
	if val != "" {
		fields[key] = val
	}
}

func setNumIfPresent(fields map[string]interface{}, key, val string) {
	if val == "" {
		return
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		fields[key] = f
	}
}
