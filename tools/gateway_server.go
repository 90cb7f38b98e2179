// Gateway development server: exposes the bridge authorization core over
// HTTP for relay and client integration testing, with Prometheus metrics and
// structured logging.
//
// Configuration (env):
//
//	LISTEN_ADDR      - HTTP listen address (default :8080)
//	LOG_LEVEL        - zap level (default info)
//	LOG_FORMAT       - "json" for production encoding
//	ADMIN_PUBKEY     - hex, 32 bytes
//	PAUSER_PUBKEY    - hex, 32 bytes
//	TSS_PUBKEY       - hex, 32 bytes (host-side authority identity)
//	TSS_ETH_ADDRESS  - hex, 20 bytes (signing authority address)
//	TSS_CHAIN_ID     - uint64
//	MIN_CAP_USD      - integer, 1e8 = $1 (default 100000000)
//	MAX_CAP_USD      - integer, 1e8 = $1 (default 1000000000)
//	PRICE_FEED       - hex, 32 bytes
//	ORACLE_PRICE     - raw feed price (default 15000000000)
//	ORACLE_EXPONENT  - feed exponent (default -8)
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pushgateway/gateway"
	"pushgateway/ledger"
	"pushgateway/oracle"
	"pushgateway/shared"
)

var logger *zap.Logger

func initLogger() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	var zapConfig zap.Config
	if os.Getenv("LOG_FORMAT") == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	logger, err = zapConfig.Build()
	if err != nil {
		panic(err)
	}
}

func envPubkey(name string) shared.Pubkey {
	v := os.Getenv(name)
	if v == "" {
		logger.Fatal("missing required env var", zap.String("name", name))
	}
	p, err := shared.PubkeyFromHex(v)
	if err != nil {
		logger.Fatal("invalid pubkey env var", zap.String("name", name), zap.Error(err))
	}
	return p
}

func envInt64(name string, def int64) int64 {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		logger.Fatal("invalid integer env var", zap.String("name", name), zap.Error(err))
	}
	return n
}

type server struct {
	gw       *gateway.Gateway
	recorder *gateway.Recorder
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := gateway.ErrorCode(err)
	status := http.StatusBadRequest
	if code == "" {
		status = http.StatusInternalServerError
		code = "INTERNAL_ERROR"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Code: code, Message: err.Error()})
}

func writeOK(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

type depositGasRequest struct {
	Caller        string `json:"caller"`
	Amount        uint64 `json:"amount"`
	RevertTo      string `json:"revert_to"`
	RevertMsg     string `json:"revert_msg"`
	PayloadTo     string `json:"payload_to"`
	PayloadData   string `json:"payload_data"`
	PayloadNonce  uint64 `json:"payload_nonce"`
	PayloadDeadln int64  `json:"payload_deadline"`
}

func (s *server) handleDepositGas(w http.ResponseWriter, r *http.Request) {
	var req depositGasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := shared.PubkeyFromHex(req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	revertTo, err := shared.PubkeyFromHex(req.RevertTo)
	if err != nil {
		writeError(w, err)
		return
	}
	payloadTo, err := shared.PubkeyFromHex(req.PayloadTo)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := hex.DecodeString(req.PayloadData)
	if err != nil {
		writeError(w, err)
		return
	}
	payload := &shared.UniversalPayload{
		To:       payloadTo,
		Data:     data,
		Nonce:    req.PayloadNonce,
		Deadline: req.PayloadDeadln,
		VType:    shared.UniversalTxVerification,
	}
	cfg := shared.RevertSettings{FundRecipient: revertTo, RevertMsg: []byte(req.RevertMsg)}
	if err := s.gw.SendTxWithGas(caller, payload, cfg, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]string{"status": "committed"})
}

type withdrawRequest struct {
	Recipient   string `json:"recipient"`
	Amount      uint64 `json:"amount"`
	Signature   string `json:"signature"`
	RecoveryID  byte   `json:"recovery_id"`
	MessageHash string `json:"message_hash"`
	Nonce       uint64 `json:"nonce"`
}

func (s *server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	recipient, err := shared.PubkeyFromHex(req.Recipient)
	if err != nil {
		writeError(w, err)
		return
	}
	sigBytes, err := hex.DecodeString(req.Signature)
	if err != nil {
		writeError(w, err)
		return
	}
	hashBytes, err := hex.DecodeString(req.MessageHash)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := shared.ValidateSignatureArgs(sigBytes, hashBytes); err != nil {
		writeError(w, err)
		return
	}
	var args gateway.WithdrawArgs
	copy(args.Signature[:], sigBytes)
	copy(args.MessageHash[:], hashBytes)
	args.RecoveryID = req.RecoveryID
	args.Nonce = req.Nonce

	if err := s.gw.Withdraw(recipient, req.Amount, args); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]string{"status": "committed"})
}

func (s *server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeOK(w, s.recorder.Events())
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.gw.Config()
	if err != nil {
		writeError(w, err)
		return
	}
	tss, err := s.gw.Tss()
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{
		"paused":      cfg.Paused,
		"min_cap_usd": cfg.MinCapUsd.String(),
		"max_cap_usd": cfg.MaxCapUsd.String(),
		"tss_address": tss.EthAddress.Hex(),
		"chain_id":    tss.ChainID,
		"nonce":       tss.Nonce,
		"vault":       s.gw.Vault().String(),
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]string{"status": "ok"})
}

func main() {
	initLogger()
	defer logger.Sync()

	admin := envPubkey("ADMIN_PUBKEY")
	pauser := envPubkey("PAUSER_PUBKEY")
	tss := envPubkey("TSS_PUBKEY")
	priceFeed := envPubkey("PRICE_FEED")

	ethAddrHex := os.Getenv("TSS_ETH_ADDRESS")
	if ethAddrHex == "" {
		logger.Fatal("missing required env var", zap.String("name", "TSS_ETH_ADDRESS"))
	}
	ethAddr := common.HexToAddress(ethAddrHex)

	reader := oracle.StaticReader{Data: oracle.PriceData{
		Price:       envInt64("ORACLE_PRICE", 15_000_000_000),
		Exponent:    int32(envInt64("ORACLE_EXPONENT", -8)),
		PublishTime: time.Now().Unix(),
		Confidence:  1,
	}}

	recorder := &gateway.Recorder{}
	gw := gateway.New(ledger.New(), gateway.Options{
		PriceReader: reader,
		Emitter:     recorder,
		Logger:      logger,
	})

	err := gw.Initialize(gateway.InitializeParams{
		Admin:     admin,
		Pauser:    pauser,
		Tss:       tss,
		MinCapUsd: decimal.NewFromInt(envInt64("MIN_CAP_USD", 100_000000)),
		MaxCapUsd: decimal.NewFromInt(envInt64("MAX_CAP_USD", 1000_000000)),
		PriceFeed: priceFeed,
	})
	if err != nil {
		logger.Fatal("gateway initialization failed", zap.Error(err))
	}
	if err := gw.InitTss(tss, ethAddr, uint64(envInt64("TSS_CHAIN_ID", 1))); err != nil {
		logger.Fatal("tss initialization failed", zap.Error(err))
	}

	srv := &server{gw: gw, recorder: recorder}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/status", srv.handleStatus)
	mux.HandleFunc("/deposit/gas", srv.handleDepositGas)
	mux.HandleFunc("/withdraw", srv.handleWithdraw)
	mux.HandleFunc("/events", srv.handleEvents)
	mux.Handle("/metrics", promhttp.Handler())

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("gateway server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
