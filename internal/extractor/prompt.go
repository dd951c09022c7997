package extractor

import "strings"

// BuildPurchaseOrderPrompt returns the extraction prompt for purchase-order documents.
func BuildPurchaseOrderPrompt() string {
	return `You are a document data extraction assistant. Analyze the provided purchase order and extract ALL data into the following JSON structure.

IMPORTANT INSTRUCTIONS:
- The order may span multiple pages. Extract EVERY line item from every page into a single flat "line_items" array. Do not skip, summarize, or omit any items.
- Return every value as a string, copied exactly as printed on the page. Do not reformat numbers and do not convert units.
- Dates must be returned verbatim. Documents may use the Republic of China calendar (e.g. "1141028" or "114/10/28"); do NOT convert them to the Gregorian calendar.
- The price area of each line item has four columns: list price, discount percent, unit price, and amount. Individual columns are often blank or illegible; leave a column as an empty string rather than guessing.
- For every line item also fill "raw_price_tokens": every numeric token that appears in the price area, in reading order, separated by single spaces (e.g. "250 80 200 8000"). Fill it even when the individual price columns are complete.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation — just the raw JSON object.

Return two top-level keys: "data" and "confidence_scores".

The "data" object must follow this schema:
{
  "header": {
    "supplier": "",
    "purchaser": "",
    "vendor_order_no": "",
    "po_number": "",
    "order_date": "",
    "address": "",
    "total_amount": ""
  },
  "line_items": [
    {
      "index": "",
      "item_date": "",
      "item_order_no": "",
      "brand": "",
      "product_name": "",
      "spec": "",
      "quantity": "",
      "unit": "",
      "prices": {
        "list_price": "",
        "discount_percent": "",
        "unit_price": "",
        "amount": ""
      },
      "raw_price_tokens": "",
      "weight": "",
      "remarks": ""
    }
  ],
  "notes": ""
}

The "confidence_scores" object should mirror the "data" structure but with float values between 0.0 and 1.0 indicating your confidence for each extracted field. Each line item's confidence object must additionally carry an "overall" float for the item as a whole. Use 0.0 for fields not found in the document.

If a field is not present in the document, use an empty string.`
}

// ExtractJSONObject returns the first top-level JSON object in s, tolerating
// markdown fences and prose around it. Used for providers without a native
// JSON response mode.
func ExtractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
