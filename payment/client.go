package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bicepspshop/FINALrealtor-sub001/models"

	"github.com/google/uuid"
)

var (
	shopIDEnv    = "YOOKASSA_SHOP_ID"
	secretKeyEnv = "YOOKASSA_SECRET_KEY"
	returnURLEnv = "PAYMENT_RETURN_URL"
	apiURL       = "https://api.yookassa.ru/v3/payments"
)

// PlanPrice returns the price of a plan in RUB, overridable per plan from
// the environment (PLAN_MONTHLY_PRICE / PLAN_YEARLY_PRICE).
func PlanPrice(plan models.SubscriptionPlan) string {
	switch plan {
	case models.PlanYearly:
		if v := os.Getenv("PLAN_YEARLY_PRICE"); v != "" {
			return v
		}
		return "19000.00"
	default:
		if v := os.Getenv("PLAN_MONTHLY_PRICE"); v != "" {
			return v
		}
		return "2000.00"
	}
}

type createRequest struct {
	Amount struct {
		Value    string `json:"value"`
		Currency string `json:"currency"`
	} `json:"amount"`
	Capture      bool `json:"capture"`
	Confirmation struct {
		Type      string `json:"type"`
		ReturnURL string `json:"return_url"`
	} `json:"confirmation"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

type createResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Confirmation struct {
		ConfirmationURL string `json:"confirmation_url"`
	} `json:"confirmation"`
}

// CreatePayment registers a payment with the gateway and returns the hosted
// confirmation page URL the user must be redirected to. The user id and
// plan ride along as metadata and come back to us in the webhook.
func CreatePayment(userID string, plan models.SubscriptionPlan) (paymentID string, confirmationURL string, err error) {
	shopID := os.Getenv(shopIDEnv)
	secretKey := os.Getenv(secretKeyEnv)
	if shopID == "" || secretKey == "" {
		return "", "", fmt.Errorf("%s and %s are required in environment variables", shopIDEnv, secretKeyEnv)
	}

	var reqBody createRequest
	reqBody.Amount.Value = PlanPrice(plan)
	reqBody.Amount.Currency = "RUB"
	reqBody.Capture = true
	reqBody.Confirmation.Type = "redirect"
	reqBody.Confirmation.ReturnURL = os.Getenv(returnURLEnv)
	reqBody.Description = fmt.Sprintf("РиелторПро subscription (%s)", plan)
	reqBody.Metadata = map[string]string{
		"userId":   userID,
		"planType": string(plan),
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", "", fmt.Errorf("error encoding payment request: %v", err)
	}

	req, err := http.NewRequest("POST", apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", "", fmt.Errorf("error creating request: %v", err)
	}
	req.SetBasicAuth(shopID, secretKey)
	req.Header.Set("Content-Type", "application/json")
	// The gateway deduplicates create calls by this key
	req.Header.Set("Idempotence-Key", uuid.New().String())

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("error calling the payment gateway: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("error reading gateway response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("payment gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var created createResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", "", fmt.Errorf("error decoding gateway response: %v", err)
	}
	if created.Confirmation.ConfirmationURL == "" {
		return "", "", fmt.Errorf("gateway response carries no confirmation URL")
	}

	return created.ID, created.Confirmation.ConfirmationURL, nil
}
