package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// docInvoice, docProduct, and docCustomer describe the structured output the
// model must produce for one document. The jsonschema tags drive the strict
// response schema.
type docInvoice struct {
	SerialNumber string  `json:"serialNumber" jsonschema_description:"The invoice number; use the same value for every product from the same invoice"`
	CustomerName string  `json:"customerName"`
	ProductName  string  `json:"productName"`
	Quantity     float64 `json:"quantity"`
	Tax          float64 `json:"tax" jsonschema_description:"Tax percentage as a plain number"`
	TotalAmount  float64 `json:"totalAmount" jsonschema_description:"Total for this product line as a plain number without currency symbols"`
	Date         string  `json:"date" jsonschema_description:"Invoice date in YYYY-MM-DD format"`
	Discount     float64 `json:"discount"`
}

type docProduct struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	Tax          float64 `json:"tax"`
	PriceWithTax float64 `json:"priceWithTax"`
	Discount     float64 `json:"discount"`
}

type docCustomer struct {
	CustomerName        string  `json:"customerName"`
	PhoneNumber         string  `json:"phoneNumber"`
	TotalPurchaseAmount float64 `json:"totalPurchaseAmount" jsonschema_description:"Sum of all products purchased by this customer"`
}

type documentExtraction struct {
	Invoices  []docInvoice  `json:"invoices" jsonschema_description:"One entry per product found; return an empty list when the document holds no invoice data"`
	Products  []docProduct  `json:"products" jsonschema_description:"One entry per unique product found"`
	Customers []docCustomer `json:"customers"`
}

const extractPrompt = `Analyze this %s and extract the following information into three distinct sections:

1. Invoices section: create a separate invoice entry for EACH product found, with the invoice number repeated for all products from the same invoice, the customer name, the product name, the quantity, the tax, the individual product total, and the date.

2. Products section: create a separate entry for EACH unique product found, with its name, quantity, unit price, tax, price with tax, and optional discount.

3. Customers section: the customer name, phone number, and total purchase amount (sum of all products).

Format numbers as plain numbers without currency symbols.
If multiple products are found in a single invoice, create separate entries for each product while maintaining the same invoice number.
If the document contains no invoice information at all, return empty lists for all three sections.`

// Agent extracts invoice records from PDFs and images via the OpenAI
// Responses API with a strict JSON schema.
type Agent struct {
	client *openai.Client
	model  string
}

// NewAgent creates an Agent. An empty model falls back to GPT-4o.
func NewAgent(apiKey, model string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = shared.ChatModelGPT4o
	}
	return &Agent{client: &client, model: model}
}

// ExtractDocument sends the document to the model and returns the raw JSON
// text of the three-section extraction result.
func (a *Agent) ExtractDocument(ctx context.Context, mimeType string, data []byte) (string, error) {
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return "", fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	kind := "image"
	if mimeType == "application/pdf" {
		kind = "PDF document"
	}
	prompt := fmt.Sprintf(extractPrompt, kind)

	encoded := base64.StdEncoding.EncodeToString(data)
	content := responses.ResponseInputMessageContentListParam{
		responses.ResponseInputContentUnionParam{
			OfInputText: &responses.ResponseInputTextParam{Text: prompt},
		},
	}
	if mimeType == "application/pdf" {
		content = append(content, responses.ResponseInputContentUnionParam{
			OfInputFile: &responses.ResponseInputFileParam{
				Filename: param.NewOpt("invoice.pdf"),
				FileData: param.NewOpt("data:application/pdf;base64," + encoded),
			},
		})
	} else {
		content = append(content, responses.ResponseInputContentUnionParam{
			OfInputImage: &responses.ResponseInputImageParam{
				Detail:   responses.ResponseInputImageDetailAuto,
				ImageURL: param.NewOpt("data:" + mimeType + ";base64," + encoded),
			},
		})
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(a.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemUnionParam{
					OfMessage: &responses.EasyInputMessageParam{
						Role: responses.EasyInputMessageRoleUser,
						Content: responses.EasyInputMessageContentUnionParam{
							OfInputItemContentList: content,
						},
					},
				},
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "invoice_extraction",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("Structured invoice, product, and customer records extracted from a document"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai responses error: %w", err)
	}

	text := resp.OutputText()
	if text == "" {
		return "", fmt.Errorf("empty response content")
	}
	return text, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v documentExtraction
	return reflector.Reflect(v)
}
