package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Client reads wallet balances from the chain. The collateral token is the
// 6-decimal stablecoin markets settle in; the hub is the market contract
// that needs a spending allowance before buys can clear.
type Client struct {
	rpcURL string
	token  common.Address
	hub    common.Address
	logger *zap.Logger
}

// Balances holds on-chain balances for one wallet.
type Balances struct {
	Gas        *big.Int // native token, in wei
	Collateral *big.Int // collateral token, in 6-decimal units
	Allowance  *big.Int // collateral approved to the market hub
}

// ClientConfig holds wallet client configuration.
type ClientConfig struct {
	RPCURL string
	Token  common.Address // collateral token contract
	Hub    common.Address // market hub contract (allowance spender)
	Logger *zap.Logger
}

// NewClient creates a new wallet client.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, errors.New("rpcURL cannot be empty")
	}

	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Client{
		rpcURL: cfg.RPCURL,
		token:  cfg.Token,
		hub:    cfg.Hub,
		logger: cfg.Logger,
	}, nil
}

// GetBalances fetches gas, collateral and allowance balances.
func (c *Client) GetBalances(ctx context.Context, address common.Address) (*Balances, error) {
	client, err := ethclient.DialContext(ctx, c.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial RPC: %w", err)
	}
	defer client.Close()

	gasBalance, err := client.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("get gas balance: %w", err)
	}

	collateral, err := c.getERC20Balance(ctx, client, address)
	if err != nil {
		return nil, fmt.Errorf("get collateral balance: %w", err)
	}

	allowance, err := c.getERC20Allowance(ctx, client, address)
	if err != nil {
		return nil, fmt.Errorf("get collateral allowance: %w", err)
	}

	return &Balances{
		Gas:        gasBalance,
		Collateral: collateral,
		Allowance:  allowance,
	}, nil
}

// CollateralFloat converts the 6-decimal collateral balance to a float.
func (b *Balances) CollateralFloat() float64 {
	return CollateralToFloat(b.Collateral)
}

// CollateralToFloat converts a 6-decimal collateral amount to a float.
func CollateralToFloat(v *big.Int) float64 {
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(v),
		big.NewFloat(1e6)).Float64()
	return f
}

// getERC20Balance fetches the collateral token balance for an address.
func (c *Client) getERC20Balance(
	ctx context.Context,
	client *ethclient.Client,
	owner common.Address,
) (*big.Int, error) {
	balanceOfABI := `[{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"}]`

	parsedABI, err := abi.JSON(strings.NewReader(balanceOfABI))
	if err != nil {
		return nil, fmt.Errorf("parse ABI: %w", err)
	}

	data, err := parsedABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("pack ABI: %w", err)
	}

	msg := ethereum.CallMsg{
		To:   &c.token,
		Data: data,
	}

	result, err := client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call contract: %w", err)
	}

	return new(big.Int).SetBytes(result), nil
}

// getERC20Allowance fetches the collateral allowance approved to the hub.
func (c *Client) getERC20Allowance(
	ctx context.Context,
	client *ethclient.Client,
	owner common.Address,
) (*big.Int, error) {
	allowanceABI := `[{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"}]`

	parsedABI, err := abi.JSON(strings.NewReader(allowanceABI))
	if err != nil {
		return nil, fmt.Errorf("parse ABI: %w", err)
	}

	data, err := parsedABI.Pack("allowance", owner, c.hub)
	if err != nil {
		return nil, fmt.Errorf("pack ABI: %w", err)
	}

	msg := ethereum.CallMsg{
		To:   &c.token,
		Data: data,
	}

	result, err := client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call contract: %w", err)
	}

	return new(big.Int).SetBytes(result), nil
}
