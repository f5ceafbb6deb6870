package domain

import "errors"

var (
	ErrUnknownSymbol  = errors.New("unknown symbol")
	ErrAssetNotFound  = errors.New("asset not found")
	ErrWalletNotFound = errors.New("wallet not found")
	ErrWalletExists   = errors.New("wallet already exists")
	ErrPriceNotFound  = errors.New("price not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrProvider       = errors.New("market data provider error")
)
