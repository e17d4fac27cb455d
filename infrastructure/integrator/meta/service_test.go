package meta

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metadomain "github.com/vfg2006/mruda-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/mruda-api/infrastructure/integrator/meta/mocks"
	"github.com/vfg2006/mruda-api/internal/config"
	"github.com/vfg2006/mruda-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func newIntegrator(t *testing.T) (*MetaIntegrator, *mocks.MockClient) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	return New(config.Meta{AdAccountID: "555"}, client), client
}

func TestMetaIntegrator_AccountID(t *testing.T) {
	integrator, _ := newIntegrator(t)
	assert.Equal(t, "act_555", integrator.AccountID())
}

func TestMetaIntegrator_Fetch(t *testing.T) {
	window := domain.DateWindow{Start: "2024-03-01", Stop: "2024-03-07"}

	t.Run("repassa as linhas do cliente", func(t *testing.T) {
		integrator, client := newIntegrator(t)
		client.EXPECT().
			GetInsights(gomock.Any(), domain.EntityAdSet, window).
			Return([]domain.RawRow{{"adset_id": "s1"}}, nil)

		rows, err := integrator.Fetch(context.Background(), domain.EntityAdSet, window)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("erro do cliente é propagado com o nível", func(t *testing.T) {
		integrator, client := newIntegrator(t)
		cause := errors.New("timeout")
		client.EXPECT().GetInsights(gomock.Any(), domain.EntityAd, window).Return(nil, cause)

		_, err := integrator.Fetch(context.Background(), domain.EntityAd, window)
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "ad")
	})
}

func TestMetaIntegrator_FetchCurrency(t *testing.T) {
	tests := []struct {
		name    string
		info    *metadomain.AccountInfo
		err     error
		want    string
		wantErr error
	}{
		{name: "moeda da conta", info: &metadomain.AccountInfo{Currency: "BRL"}, want: "BRL"},
		{name: "conta sem moeda", info: &metadomain.AccountInfo{}, wantErr: ErrNoCurrency},
		{name: "falha na API", err: errors.New("boom"), wantErr: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integrator, client := newIntegrator(t)
			client.EXPECT().GetAccountInfo(gomock.Any()).Return(tt.info, tt.err)

			got, err := integrator.FetchCurrency(context.Background())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMetaIntegrator_FetchCampaignObjective(t *testing.T) {
	t.Run("usa a primeira campanha", func(t *testing.T) {
		integrator, client := newIntegrator(t)
		client.EXPECT().GetCampaigns(gomock.Any()).Return([]metadomain.Campaign{
			{ID: "1", Objective: "OUTCOME_SALES"},
			{ID: "2", Objective: "OUTCOME_LEADS"},
		}, nil)

		objective, err := integrator.FetchCampaignObjective(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "OUTCOME_SALES", objective)
	})

	t.Run("sem campanhas", func(t *testing.T) {
		integrator, client := newIntegrator(t)
		client.EXPECT().GetCampaigns(gomock.Any()).Return(nil, nil)

		objective, err := integrator.FetchCampaignObjective(context.Background())
		require.NoError(t, err)
		assert.Empty(t, objective)
	})
}

func TestMetaIntegrator_ValidateToken(t *testing.T) {
	integrator, client := newIntegrator(t)
	client.EXPECT().DebugToken(gomock.Any()).Return(&metadomain.TokenInfo{Valid: false, AppID: "42"}, nil)

	info, err := integrator.ValidateToken(context.Background())
	require.NoError(t, err)
	assert.False(t, info.Valid)
}
