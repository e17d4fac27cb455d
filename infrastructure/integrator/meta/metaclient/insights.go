package metaclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/mruda-api/internal/domain"
)

// InsightFields são os campos pedidos em todos os níveis. account_id e
// account_name garantem a identidade da linha no nível de conta.
var InsightFields = strings.Join([]string{
	"account_id", "account_name",
	"campaign_name", "campaign_id", "adset_name", "adset_id", "ad_name", "ad_id",
	"impressions", "reach", "clicks", "unique_clicks", "spend", "frequency",
	"ctr", "cpc", "cpm", "cpp",
	"actions", "action_values", "cost_per_action_type",
	"video_avg_time_watched_actions",
	"video_p25_watched_actions", "video_p50_watched_actions",
	"video_p75_watched_actions", "video_p100_watched_actions",
}, ",")

const pageLimit = "500"

type timeRange struct {
	Since string `json:"since"`
	Until string `json:"until"`
}

// GetInsights busca os insights diários da conta no nível pedido
func (c *MetaClient) GetInsights(ctx context.Context, level domain.EntityType, window domain.DateWindow) ([]domain.RawRow, error) {
	if !level.IsValid() {
		return nil, fmt.Errorf("nível de insight inválido: %q", level)
	}

	tr, err := json.Marshal(timeRange{Since: window.Start, Until: window.Stop})
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("fields", InsightFields)
	params.Set("level", string(level))
	params.Set("time_range", string(tr))
	params.Set("time_increment", "1")
	params.Set("limit", pageLimit)

	endpoint := AccountPath(c.cfg.AdAccountID) + "/insights"
	rows, err := paginate[domain.RawRow](ctx, c, c.endpointURL(endpoint, params))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"level": level,
			"error": err.Error(),
		}).Error("meta: falha ao buscar insights")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"level":      level,
		"date_start": window.Start,
		"date_stop":  window.Stop,
		"rows":       len(rows),
	}).Debug("meta: insights recebidos")

	return rows, nil
}
