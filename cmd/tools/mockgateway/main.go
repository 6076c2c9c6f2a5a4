package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/gateway"
)

// Builds a correctly signed gateway notification and fires it at the notify
// endpoint, the way the real gateway would.
func main() {
	target := flag.String("url", "http://localhost:8080/webhooks/gateway/notify", "Notify endpoint URL")
	secret := flag.String("secret", os.Getenv("GATEWAY_SECRET"), "Gateway shared secret")
	orderID := flag.String("order", "", "Order ID (required)")
	amount := flag.Int64("amount", 150000, "Order amount in minor units (scaled x100 on the wire)")
	rspCode := flag.String("rsp-code", gateway.RspCodeSuccess, "Gateway result code (00 = success)")
	txnID := flag.String("txn-id", "GW"+uuid.NewString()[:8], "Gateway transaction id")
	bankCode := flag.String("bank-code", "NCB", "Bank/channel code")
	dryRun := flag.Bool("dry-run", false, "Only print the signed URL, don't send")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "Error: secret not provided and GATEWAY_SECRET not set")
		os.Exit(1)
	}
	if *orderID == "" {
		fmt.Fprintln(os.Stderr, "Error: -order is required")
		os.Exit(1)
	}

	now := time.Now()
	params := url.Values{}
	params.Set(gateway.ParamTxnRef, gateway.NewTxnRef(*orderID, now))
	params.Set(gateway.ParamRspCode, *rspCode)
	params.Set(gateway.ParamAmount, strconv.FormatInt(*amount*100, 10))
	params.Set(gateway.ParamTxnID, *txnID)
	params.Set(gateway.ParamBankCode, *bankCode)
	params.Set(gateway.ParamPayDate, now.Format("20060102150405"))
	params.Set(gateway.ParamOrderInfo, "mock gateway notification")
	params.Set(gateway.ParamSignature, gateway.Sign(params, *secret))

	notifyURL := *target + "?" + params.Encode()
	fmt.Printf("Notify URL: %s\n", notifyURL)

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending...\n")
	resp, err := http.Get(notifyURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(body))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
