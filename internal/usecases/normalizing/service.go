package normalizing

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/mruda-api/infrastructure/repository"
	"github.com/vfg2006/mruda-api/internal/domain"
)

// directMetrics são copiados da linha bruta quando presentes
var directMetrics = []string{
	"impressions",
	"reach",
	"clicks",
	"unique_clicks",
	"spend",
	"frequency",
	"ctr",
	"cpc",
	"cpm",
	"cpp",
}

// actionMetrics mapeia action_type para o nome normalizado. Tipos fora da tabela são ignorados.
var actionMetrics = map[string]string{
	"link_click":                           "link_clicks",
	"post_engagement":                      "post_engagement",
	"page_engagement":                      "page_engagement",
	"like":                                 "likes",
	"comment":                              "comments",
	"post":                                 "shares",
	"purchase":                             "conversions",
	"offsite_conversion.fb_pixel_purchase": "conversions",
	"video_view":                           "video_views",
}

// summedActions acumulam entre tipos de ação diferentes
var summedActions = map[string]bool{
	"conversions": true,
}

var purchaseActionTypes = map[string]bool{
	"purchase":                             true,
	"offsite_conversion.fb_pixel_purchase": true,
}

var videoBuckets = []string{"25", "50", "75", "100"}

type Normalizer interface {
	// Normalize grava as linhas do nível informado e retorna quantos registros novos foram criados
	Normalize(ctx context.Context, rows []domain.RawRow, level domain.EntityType) (int, error)
}

type Service struct {
	repo     repository.NormalizedMetricRepository
	registry *Registry
	source   string
}

func NewService(repo repository.NormalizedMetricRepository, registry *Registry) *Service {
	if registry == nil {
		registry = NewRegistry()
	}

	return &Service{
		repo:     repo,
		registry: registry,
		source:   domain.SourceMeta,
	}
}

func (s *Service) Normalize(ctx context.Context, rows []domain.RawRow, level domain.EntityType) (int, error) {
	if !level.IsValid() {
		return 0, fmt.Errorf("nível de entidade inválido: %q", level)
	}

	created, skipped, written := 0, 0, 0

	for i, row := range rows {
		metrics, err := s.extract(row, level)
		if err != nil {
			skipped++
			rowErr := &RowError{Index: i, Level: string(level), Err: err}
			logrus.WithError(rowErr).WithField("level", level).Warn("Linha descartada na normalização")
			continue
		}

		for _, metric := range metrics {
			isNew, err := s.repo.Upsert(ctx, metric)
			if err != nil {
				return created, fmt.Errorf("erro ao gravar métrica %s de %s %s: %w", metric.MetricName, metric.EntityType, metric.EntityID, err)
			}
			written++
			if isNew {
				created++
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"level":   level,
		"rows":    len(rows),
		"metrics": written,
		"created": created,
		"skipped": skipped,
	}).Info("Normalização concluída")

	return created, nil
}

// extract converte uma linha em métricas normalizadas, preservando a ordem de extração
func (s *Service) extract(row domain.RawRow, level domain.EntityType) ([]domain.NormalizedMetric, error) {
	entityID, entityName := entityIdentity(row, level)
	if entityID == "" {
		return nil, errors.New("identificador da entidade ausente")
	}

	date := row.String("date_start")
	if date == "" {
		return nil, errors.New("date_start ausente")
	}

	values := newOrderedValues()

	for _, name := range directMetrics {
		if row.Has(name) {
			values.set(name, row.Float(name))
		}
	}

	actions, err := row.Actions("actions")
	if err != nil {
		return nil, err
	}
	for _, action := range actions {
		name, ok := actionMetrics[action.ActionType]
		if !ok {
			continue
		}
		if summedActions[name] {
			values.add(name, domain.ToFloat(action.Value))
		} else {
			values.set(name, domain.ToFloat(action.Value))
		}
	}

	actionValues, err := row.Actions("action_values")
	if err != nil {
		return nil, err
	}
	for _, av := range actionValues {
		if purchaseActionTypes[av.ActionType] {
			values.set("purchase_value", domain.ToFloat(av.Value))
		}
	}

	for _, bucket := range videoBuckets {
		entries, err := row.Actions("video_p" + bucket + "_watched_actions")
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.ActionType == "video_view" {
				values.set("video_p"+bucket+"_watched", domain.ToFloat(entry.Value))
			}
		}
	}

	metrics := make([]domain.NormalizedMetric, 0, len(values.names))
	for _, name := range values.names {
		metrics = append(metrics, domain.NormalizedMetric{
			Source:      s.source,
			EntityType:  level,
			EntityID:    entityID,
			EntityName:  entityName,
			Date:        date,
			MetricName:  name,
			MetricValue: values.values[name],
			MetricType:  s.registry.TypeOf(name),
		})
	}

	return metrics, nil
}

func entityIdentity(row domain.RawRow, level domain.EntityType) (string, string) {
	switch level {
	case domain.EntityAd:
		return row.String("ad_id"), row.String("ad_name")
	case domain.EntityAdSet:
		return row.String("adset_id"), row.String("adset_name")
	case domain.EntityCampaign:
		return row.String("campaign_id"), row.String("campaign_name")
	default:
		return row.String("account_id"), "Account"
	}
}

type orderedValues struct {
	names  []string
	values map[string]float64
}

func newOrderedValues() *orderedValues {
	return &orderedValues{values: make(map[string]float64)}
}

func (o *orderedValues) set(name string, v float64) {
	if _, ok := o.values[name]; !ok {
		o.names = append(o.names, name)
	}
	o.values[name] = v
}

func (o *orderedValues) add(name string, v float64) {
	o.set(name, o.values[name]+v)
}
