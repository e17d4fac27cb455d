package metaclient

import (
	"context"
	"fmt"
	"net/url"

	metadomain "github.com/vfg2006/mruda-api/infrastructure/integrator/meta/domain"
)

const accountFields = "name,account_id,account_status,currency,timezone_name,balance"

func (c *MetaClient) GetAccountInfo(ctx context.Context) (*metadomain.AccountInfo, error) {
	params := url.Values{}
	params.Set("fields", accountFields)

	body, err := c.get(ctx, c.endpointURL(AccountPath(c.cfg.AdAccountID), params))
	if err != nil {
		return nil, err
	}

	var info metadomain.AccountInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("dados da conta inválidos: %w", err)
	}

	return &info, nil
}

// DebugToken consulta a validade do token configurado. Usa o app token
// quando app id e secret estão configurados.
func (c *MetaClient) DebugToken(ctx context.Context) (*metadomain.TokenInfo, error) {
	inspector := c.cfg.AccessToken
	if c.cfg.AppID != "" && c.cfg.AppSecret != "" {
		inspector = c.cfg.AppID + "|" + c.cfg.AppSecret
	}

	params := url.Values{}
	params.Set("input_token", c.cfg.AccessToken)
	params.Set("access_token", inspector)

	body, err := c.get(ctx, c.endpointURL("debug_token", params))
	if err != nil {
		return nil, err
	}

	var resp metadomain.DebugTokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("resposta do debug_token inválida: %w", err)
	}

	return &metadomain.TokenInfo{
		Valid:     resp.Data.IsValid,
		ExpiresAt: resp.Data.ExpiresAt,
		Scopes:    resp.Data.Scopes,
		AppID:     resp.Data.AppID,
	}, nil
}
