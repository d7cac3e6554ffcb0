package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopiggo/geoclean/internal/utils"
	"github.com/shopiggo/geoclean/pkg/storage"
)

// SyncPromotions pages through the CJ Link Search API for all joined
// advertisers and merge-upserts every promotional link into the promotions
// source collection the cleaner reads from. days > 0 restricts results to
// links whose promotion started within that window.
func (c *Client) SyncPromotions(ctx context.Context, db *storage.DB, collection string, days int) (*SyncResult, error) {
	if c.Token == "" || c.WebsiteID == "" {
		return nil, errors.New("missing cj.token or cj.pid configuration")
	}
	if collection == "" {
		collection = "promotions-cj-linksearch"
	}

	result := &SyncResult{Collection: collection}

	for page := 1; page <= c.MaxPages; page++ {
		u, _ := url.Parse(c.linkSearchURL)
		params := u.Query()
		params.Set("website-id", c.WebsiteID)
		params.Set("advertiser-ids", "joined")
		params.Set("records-per-page", strconv.Itoa(c.PageSize))
		params.Set("page-number", strconv.Itoa(page))
		if days > 0 {
			start := time.Now().UTC().AddDate(0, 0, -days).Format("01/02/2006")
			params.Set("promotion-start-date", start)
		}
		u.RawQuery = params.Encode()

		utils.Log.Debugf("link-search: fetching page %d", page)
		body, err := c.fetchXML(ctx, u.String())
		if err != nil {
			return nil, err
		}

		links, err := parseLinks(body)
		if err != nil {
			return nil, err
		}
		if len(links) == 0 {
			break
		}
		result.Pages++
		result.Fetched += len(links)

		for _, fields := range links {
			name, _ := fields["advertiserName"].(string)
			linkID, _ := fields["linkId"].(string)
			docID := fmt.Sprintf("cj-%s-%s", slugify(name), linkID)
			if err := db.MergeUpsert(ctx, collection, docID, fields); err != nil {
				return nil, err
			}
			result.Upserted++
		}

		if len(links) < c.PageSize {
			break
		}
	}

	utils.Log.Infof("promotion sync: %d links upserted into %q across %d pages",
		result.Upserted, collection, result.Pages)
	return result, nil
}

// parseLinks pulls link nodes out of a CJ Link Search XML response. The HTML
// parser treats <link> as a void element and would orphan its children, so
// the tag is renamed before parsing. <link-id> starts with "<link-", not
// "<link>", and is untouched.
func parseLinks(body []byte) ([]map[string]interface{}, error) {
	body = bytes.ReplaceAll(body, []byte("<link>"), []byte("<cj-link>"))
	body = bytes.ReplaceAll(body, []byte("</link>"), []byte("</cj-link>"))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unparseable link-search response: %w", err)
	}

	var out []map[string]interface{}
	doc.Find("cj-link").Each(func(_ int, s *goquery.Selection) {
		linkID := nodeText(s, "link-id")
		if linkID == "" {
			return
		}

		fields := map[string]interface{}{
			"linkId":         linkID,
			"advertiserId":   nodeText(s, "advertiser-id"),
			"advertiserName": nodeText(s, "advertiser-name"),
			"lastSyncedAt":   nowISO(),
		}

		setIfPresent(fields, "linkName", nodeText(s, "link-name"))
		setIfPresent(fields, "linkType", nodeText(s, "link-type"))
		setIfPresent(fields, "category", nodeText(s, "category"))
		setIfPresent(fields, "language", nodeText(s, "language"))
		setIfPresent(fields, "description", nodeText(s, "description"))
		setIfPresent(fields, "destination", nodeText(s, "destination"))
		setIfPresent(fields, "promotionType", nodeText(s, "promotion-type"))
		setIfPresent(fields, "promotionStartDate", nodeText(s, "promotion-start-date"))
		setIfPresent(fields, "promotionEndDate", nodeText(s, "promotion-end-date"))
		setIfPresent(fields, "couponCode", nodeText(s, "coupon-code"))

		if d := rootDomain(nodeText(s, "destination")); d != "" {
			fields["domain"] = d
		}

		out = append(out, fields)
	})
	return out, nil
}
