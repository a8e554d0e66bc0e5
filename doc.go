// Package invoice fills a Word invoice template from JSON records and
// exports the result to PDF.
//
// # Quick Start
//
// Create a generator, generate a record, and close when done:
//
//	gen, err := invoice.NewGenerator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gen.Close()
//
//	res, err := gen.Generate(ctx, "invoices/invoice_007.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.PDFPath) // invoices/invoice_007.pdf
//
// # Records
//
// A record is one JSON document per invoice, named invoice_<number>.json.
// Keys keep their display names:
//
//	{
//	    "Invoice Number": "007",
//	    "Invoice Date": "2024-05-01",
//	    "Billing Address": "ACME, 1 Main St",
//	    "Shipping Address": "ACME Warehouse",
//	    "Instructions": "Leave at dock 4",
//	    "Items": [
//	        {"Quantity": "2", "Description": "Widget", "Unit Price": "5.00", "Total": "10.00"}
//	    ],
//	    "Total Amount": "Total Amount: $10.00"
//	}
//
// LoadRecord validates a record against an embedded JSON Schema. SaveRecord
// writes one, NextInvoiceNumber picks the next free number, and
// ComputeTotals derives the row and grand totals a collector stores.
// Totals are display strings: the merge never recomputes them.
//
// # Merging
//
// Merge replaces these literal placeholders in every table cell, in order:
//
//	Invoice #001      -> Invoice #<number>
//	Date:12-30-23     -> Date: <date>
//	Billing Address   -> billing address
//	Shipping Address  -> shipping address
//	Instructions      -> instructions
//	Total Amount      -> amount part of the total label
//
// The first table whose first cell reads "Quantity" receives the items,
// one row each; rows are appended when the template has too few.
//
// # Conversion
//
// PDFs come from a FallbackConverter. LibreOfficeConverter runs soffice
// headless and is tried first; ChromeConverter renders the document to
// HTML and prints it with headless Chrome when LibreOffice is missing or
// fails.
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
//
// # Recent Records
//
// RecentFiles lists the records created within a trailing window, newest
// first; the batch command generates each of them in turn.
package invoice
