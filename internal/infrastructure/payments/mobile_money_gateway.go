package payments

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"mobilepay_ledger/internal/usecase/interfaces"

	"go.uber.org/zap"
)

const (
	maxResponseBytes = 1 << 20

	pushPath  = "/mpesa/stkpush/v1/processrequest"
	queryPath = "/mpesa/stkpushquery/v1/query"

	transactionType = "CustomerPayBillOnline"

	// errorCodeUnderProcessing is what the query endpoint answers while the
	// payer has not acted on the prompt yet.
	errorCodeUnderProcessing = "500.001.1001"

	resultCodeSuccess    = "0"
	resultCodeProcessing = "4999"
)

var throttleErrorCodes = map[string]bool{
	"500.003.02": true,
	"429.001.01": true,
	"500.003.03": true,
}

var ErrGatewayNotConfigured = errors.New("mobile money gateway not configured")

// Error is a classified gateway failure. It unwraps to one of the
// interfaces.ErrGateway* sentinels.
type Error struct {
	Err        error
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v (status=%d code=%s): %s", e.Err, e.StatusCode, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type GatewayConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	PassKey        string
	Timeout        time.Duration
	Mock           bool
}

// MobileMoneyGateway talks to the push-payment (STK) API.
type MobileMoneyGateway struct {
	baseURL    string
	passKey    string
	httpClient *http.Client
	creds      *credentialCache
	mockMode   bool
	logger     *zap.Logger
	now        func() time.Time
}

var _ interfaces.IPaymentGateway = (*MobileMoneyGateway)(nil)

func NewMobileMoneyGateway(cfg GatewayConfig, logger *zap.Logger) (*MobileMoneyGateway, error) {
	if cfg.Mock {
		logger.Info("mobile money gateway mock mode enabled")
		return &MobileMoneyGateway{mockMode: true, logger: logger, now: time.Now}, nil
	}
	if cfg.BaseURL == "" || cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" || cfg.PassKey == "" {
		return nil, ErrGatewayNotConfigured
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	g := &MobileMoneyGateway{
		baseURL:    cfg.BaseURL,
		passKey:    cfg.PassKey,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
	g.creds = newCredentialCache(&accessTokenSource{
		baseURL: cfg.BaseURL,
		key:     cfg.ConsumerKey,
		secret:  cfg.ConsumerSecret,
		client:  httpClient,
		now:     func() time.Time { return g.now() },
	})
	logger.Info("mobile money gateway client initialized", zap.String("base_url", cfg.BaseURL))
	return g, nil
}

// Password is the hashed credential sent with every push and query:
// base64(shortcode + passkey + timestamp).
func Password(shortCode, passKey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passKey + timestamp))
}

type pushPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type pushResponse struct {
	MerchantRequestID   string     `json:"MerchantRequestID"`
	CheckoutRequestID   string     `json:"CheckoutRequestID"`
	ResponseCode        flexString `json:"ResponseCode"`
	ResponseDescription string     `json:"ResponseDescription"`
	CustomerMessage     string     `json:"CustomerMessage"`
}

type queryPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

type queryResponse struct {
	ResponseCode        flexString `json:"ResponseCode"`
	ResponseDescription string     `json:"ResponseDescription"`
	MerchantRequestID   string     `json:"MerchantRequestID"`
	CheckoutRequestID   string     `json:"CheckoutRequestID"`
	ResultCode          flexString `json:"ResultCode"`
	ResultDesc          string     `json:"ResultDesc"`
}

type apiError struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func (g *MobileMoneyGateway) RequestPush(ctx context.Context, req interfaces.PushRequest) (interfaces.PushResponse, error) {
	if g == nil {
		return interfaces.PushResponse{}, ErrGatewayNotConfigured
	}
	if g.mockMode {
		id := strconv.FormatInt(g.now().UTC().UnixNano(), 10)
		g.logger.Info("mock push accepted", zap.String("reference", req.Reference), zap.Int64("amount", req.Amount))
		return interfaces.PushResponse{
			MerchantRequestID: "mock-mr-" + id,
			CheckoutRequestID: "ws_CO_mock_" + id,
			ResponseCode:      resultCodeSuccess,
			ResponseDesc:      "Success. Request accepted for processing",
			CustomerMessage:   "Success. Request accepted for processing",
		}, nil
	}

	ts := g.timestamp()
	payload := pushPayload{
		BusinessShortCode: req.Route,
		Password:          Password(req.Route, g.passKey, ts),
		Timestamp:         ts,
		TransactionType:   transactionType,
		Amount:            req.Amount,
		PartyA:            req.Phone,
		PartyB:            req.Route,
		PhoneNumber:       req.Phone,
		CallBackURL:       req.CallbackURL,
		AccountReference:  truncate(req.Reference, 12),
		TransactionDesc:   truncate(req.Description, 13),
	}

	g.logger.Info("push start", zap.String("reference", req.Reference), zap.Int64("amount", req.Amount))
	raw, status, err := g.post(ctx, pushPath, payload)
	if err != nil {
		g.logger.Warn("push transport failed", zap.String("reference", req.Reference), zap.Error(err))
		return interfaces.PushResponse{}, err
	}
	if status < 200 || status > 299 {
		gwErr := classifyHTTPError(status, raw)
		g.logger.Warn("push rejected", zap.String("reference", req.Reference), zap.Int("status", status), zap.String("code", gwErr.Code))
		return interfaces.PushResponse{}, gwErr
	}

	var body pushResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		g.logger.Error("push response malformed", zap.String("reference", req.Reference), zap.Error(err))
		return interfaces.PushResponse{}, &Error{Err: interfaces.ErrGatewayMalformed, StatusCode: status, Message: err.Error()}
	}
	if string(body.ResponseCode) != resultCodeSuccess {
		return interfaces.PushResponse{}, &Error{Err: interfaces.ErrGatewayRejected, StatusCode: status, Code: string(body.ResponseCode), Message: body.ResponseDescription}
	}
	if body.CheckoutRequestID == "" {
		g.logger.Error("push response missing correlation id", zap.String("reference", req.Reference))
		return interfaces.PushResponse{}, &Error{Err: interfaces.ErrGatewayMalformed, StatusCode: status, Message: "missing CheckoutRequestID"}
	}

	g.logger.Info("push accepted",
		zap.String("reference", req.Reference),
		zap.String("checkout_request_id", body.CheckoutRequestID),
		zap.String("merchant_request_id", body.MerchantRequestID))

	return interfaces.PushResponse{
		MerchantRequestID: body.MerchantRequestID,
		CheckoutRequestID: body.CheckoutRequestID,
		ResponseCode:      string(body.ResponseCode),
		ResponseDesc:      body.ResponseDescription,
		CustomerMessage:   body.CustomerMessage,
	}, nil
}

func (g *MobileMoneyGateway) QueryStatus(ctx context.Context, route, checkoutRequestID string) (interfaces.QueryResult, error) {
	if g == nil {
		return interfaces.QueryResult{}, ErrGatewayNotConfigured
	}
	if g.mockMode {
		return interfaces.QueryResult{
			Outcome:           interfaces.QueryOutcomePaid,
			ResultCode:        resultCodeSuccess,
			ResultDesc:        "The service request is processed successfully.",
			CheckoutRequestID: checkoutRequestID,
		}, nil
	}

	ts := g.timestamp()
	payload := queryPayload{
		BusinessShortCode: route,
		Password:          Password(route, g.passKey, ts),
		Timestamp:         ts,
		CheckoutRequestID: checkoutRequestID,
	}

	raw, status, err := g.post(ctx, queryPath, payload)
	if err != nil {
		return interfaces.QueryResult{}, err
	}
	if status < 200 || status > 299 {
		var ae apiError
		_ = json.Unmarshal(raw, &ae)
		if ae.ErrorCode == errorCodeUnderProcessing {
			return interfaces.QueryResult{
				Outcome:           interfaces.QueryOutcomeNotYetPaid,
				ResultCode:        ae.ErrorCode,
				ResultDesc:        ae.ErrorMessage,
				CheckoutRequestID: checkoutRequestID,
			}, nil
		}
		gwErr := classifyHTTPError(status, raw)
		g.logger.Warn("query rejected", zap.String("checkout_request_id", checkoutRequestID), zap.Int("status", status), zap.String("code", gwErr.Code))
		return interfaces.QueryResult{}, gwErr
	}

	var body queryResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		g.logger.Error("query response malformed", zap.String("checkout_request_id", checkoutRequestID), zap.Error(err))
		return interfaces.QueryResult{}, &Error{Err: interfaces.ErrGatewayMalformed, StatusCode: status, Message: err.Error()}
	}

	return interfaces.QueryResult{
		Outcome:           queryOutcome(string(body.ResultCode)),
		ResultCode:        string(body.ResultCode),
		ResultDesc:        body.ResultDesc,
		MerchantRequestID: body.MerchantRequestID,
		CheckoutRequestID: body.CheckoutRequestID,
	}, nil
}

// post sends an authorized request. A 401 drops the cached credential and the
// call is repeated exactly once.
func (g *MobileMoneyGateway) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		tok, err := g.creds.token()
		if err != nil {
			return nil, 0, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, 0, err
		}
		req.Header.Set("Content-Type", "application/json")
		tok.SetAuthHeader(req)

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return nil, 0, &Error{Err: interfaces.ErrGatewayTransient, Message: err.Error()}
		}
		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, &Error{Err: interfaces.ErrGatewayTransient, StatusCode: resp.StatusCode, Message: readErr.Error()}
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			g.logger.Info("gateway credential rejected, refreshing", zap.String("path", path))
			g.creds.invalidate()
			continue
		}
		return raw, resp.StatusCode, nil
	}
	return nil, http.StatusUnauthorized, &Error{Err: interfaces.ErrGatewayUnauthorized, StatusCode: http.StatusUnauthorized, Message: "credential refresh did not help"}
}

func classifyHTTPError(status int, raw []byte) *Error {
	var ae apiError
	_ = json.Unmarshal(raw, &ae)
	e := &Error{StatusCode: status, Code: ae.ErrorCode, Message: ae.ErrorMessage}
	switch {
	case status == http.StatusTooManyRequests || throttleErrorCodes[ae.ErrorCode]:
		e.Err = interfaces.ErrGatewayThrottled
	case status == http.StatusUnauthorized:
		e.Err = interfaces.ErrGatewayUnauthorized
	case status >= 500:
		e.Err = interfaces.ErrGatewayTransient
	default:
		e.Err = interfaces.ErrGatewayRejected
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func queryOutcome(resultCode string) interfaces.QueryOutcome {
	switch resultCode {
	case resultCodeSuccess:
		return interfaces.QueryOutcomePaid
	case "", resultCodeProcessing:
		return interfaces.QueryOutcomeNotYetPaid
	default:
		return interfaces.QueryOutcomeFailed
	}
}

func (g *MobileMoneyGateway) timestamp() string {
	return g.now().Format("20060102150405")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
