package metaclient

import (
	"context"
	"net/url"

	metadomain "github.com/vfg2006/mruda-api/infrastructure/integrator/meta/domain"
)

const campaignFields = "id,name,status,objective,daily_budget,lifetime_budget,start_time,stop_time"

func (c *MetaClient) GetCampaigns(ctx context.Context) ([]metadomain.Campaign, error) {
	params := url.Values{}
	params.Set("fields", campaignFields)
	params.Set("limit", pageLimit)

	endpoint := AccountPath(c.cfg.AdAccountID) + "/campaigns"
	return paginate[metadomain.Campaign](ctx, c, c.endpointURL(endpoint, params))
}
