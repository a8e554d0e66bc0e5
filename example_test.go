package invoice_test

import (
	"context"
	"fmt"
	"log"

	invoice "github.com/alnah/go-invoice"
)

func ExampleComputeTotals() {
	totals := invoice.ComputeTotals([]invoice.Item{
		{Quantity: "2", Description: "Widget", UnitPrice: "5"},
		{Quantity: "3", Description: "Bolt", UnitPrice: "0.25"},
		{Description: "Note only"},
	})

	fmt.Println(totals.Rows)
	fmt.Println(totals.Label())
	// Output:
	// [10.00 0.75 ]
	// Total Amount: $10.75
}

func ExampleTotalAmountValue() {
	fmt.Println(invoice.TotalAmountValue("Total Amount: $10.75"))
	fmt.Println(invoice.TotalAmountValue("10.75"))
	// Output:
	// $10.75
	// 10.75
}

func ExampleGenerator_Generate() {
	gen, err := invoice.NewGenerator()
	if err != nil {
		log.Fatal(err)
	}
	defer gen.Close()

	res, err := gen.Generate(context.Background(), "records/invoice_001.json")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.PDFPath)
}
