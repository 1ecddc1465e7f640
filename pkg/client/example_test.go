package client_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/orion-ad/guardian/pkg/client"
)

// Example demonstrates basic usage of the Orion backend client
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8006",
		APIKey:  "your-api-key",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	list, err := c.Alerts().List(ctx, &client.AlertListOptions{Severity: "critical", Limit: 20})
	if err != nil {
		log.Fatal(err)
	}

	for _, a := range list.Alerts {
		fmt.Printf("[%s] %s (%s from %s)\n", a.Severity, a.Title, a.User, a.SourceIP)
	}
}

// ExampleAlertService_Remediate demonstrates triggering remediation
func ExampleAlertService_Remediate() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8006",
		APIKey:  "your-api-key",
	})

	res, err := c.Alerts().Remediate(context.Background(), "alert-123")
	if err != nil {
		if client.StatusCode(err) == 404 {
			log.Fatal("alert not found")
		}
		log.Fatal(err)
	}

	fmt.Println(res.Message)
	for _, action := range res.ActionsTaken() {
		fmt.Printf("  - %s\n", action)
	}
}

// ExampleClient_Export demonstrates a CSV export
func ExampleClient_Export() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8006",
		APIKey:  "your-api-key",
	})

	res, err := c.Export(context.Background(), client.ExportOptions{
		Format:   client.FormatCSV,
		Severity: "high",
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s (%s, %d bytes)\n", res.Filename, res.ContentType, len(res.Content))
}

// ExampleClient_Config demonstrates reading the backend configuration
func ExampleClient_Config() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8006",
		APIKey:  "your-api-key",
	})

	cfg, err := c.Config(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Backend %s, production mode: %v\n", cfg.Version, cfg.ProductionMode)
}
