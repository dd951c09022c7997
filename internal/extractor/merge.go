package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"sync"

	"poaudit/internal/port"
	"poaudit/internal/validator/order"
)

var dateRe = regexp.MustCompile(`^\d{2,4}[/.-]\d{1,2}[/.-]\d{1,2}$|^\d{6,8}$`)
var amountRe = regexp.MustCompile(`^[\d,]+(\.\d+)?$`)

// MergeExtractor wraps two OrderExtractors, runs both in parallel, and merges results.
type MergeExtractor struct {
	primary   port.OrderExtractor
	secondary port.OrderExtractor
}

// NewMergeExtractor creates a MergeExtractor from primary and secondary extractors.
func NewMergeExtractor(primary, secondary port.OrderExtractor) *MergeExtractor {
	return &MergeExtractor{primary: primary, secondary: secondary}
}

func (m *MergeExtractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	type result struct {
		output *port.ExtractOutput
		err    error
	}

	var wg sync.WaitGroup
	primaryCh := make(chan result, 1)
	secondaryCh := make(chan result, 1)

	wg.Add(2)
	go func() {
		defer wg.Done()
		out, err := m.primary.Extract(ctx, input)
		primaryCh <- result{out, err}
	}()
	go func() {
		defer wg.Done()
		out, err := m.secondary.Extract(ctx, input)
		secondaryCh <- result{out, err}
	}()

	wg.Wait()
	close(primaryCh)
	close(secondaryCh)

	pResult := <-primaryCh
	sResult := <-secondaryCh

	// Both failed
	if pResult.err != nil && sResult.err != nil {
		return nil, fmt.Errorf("both extractors failed: primary: %v; secondary: %v", pResult.err, sResult.err)
	}

	// Only secondary succeeded
	if pResult.err != nil {
		log.Printf("extractor.MergeExtractor: primary extractor failed (%v), using secondary only", pResult.err)
		sResult.output.FieldProvenance = map[string]string{"_source": "secondary_only"}
		sResult.output.SecondaryModel = sResult.output.ModelUsed
		return sResult.output, nil
	}

	// Only primary succeeded
	if sResult.err != nil {
		log.Printf("extractor.MergeExtractor: secondary extractor failed (%v), using primary only", sResult.err)
		pResult.output.FieldProvenance = map[string]string{"_source": "primary_only"}
		return pResult.output, nil
	}

	// Both succeeded — merge
	return mergeOutputs(pResult.output, sResult.output)
}

func mergeOutputs(primary, secondary *port.ExtractOutput) (*port.ExtractOutput, error) {
	var pData, sData order.PurchaseOrder
	if err := json.Unmarshal(primary.StructuredData, &pData); err != nil {
		return primary, nil // fall back to primary on parse error
	}
	if err := json.Unmarshal(secondary.StructuredData, &sData); err != nil {
		return primary, nil
	}

	var pConf, sConf order.OrderConfidence
	_ = json.Unmarshal(primary.ConfidenceScores, &pConf)
	_ = json.Unmarshal(secondary.ConfidenceScores, &sConf)

	provenance := make(map[string]string)
	merged := pData // start with primary

	// Merge scalar header fields
	mergeString(&merged.Header.Supplier, sData.Header.Supplier, &pConf.Header.Supplier, sConf.Header.Supplier, "header.supplier", provenance, nil)
	mergeString(&merged.Header.Purchaser, sData.Header.Purchaser, &pConf.Header.Purchaser, sConf.Header.Purchaser, "header.purchaser", provenance, nil)
	mergeString(&merged.Header.VendorOrderNo, sData.Header.VendorOrderNo, &pConf.Header.VendorOrderNo, sConf.Header.VendorOrderNo, "header.vendor_order_no", provenance, nil)
	mergeString(&merged.Header.PONumber, sData.Header.PONumber, &pConf.Header.PONumber, sConf.Header.PONumber, "header.po_number", provenance, nil)
	mergeString(&merged.Header.OrderDate, sData.Header.OrderDate, &pConf.Header.OrderDate, sConf.Header.OrderDate, "header.order_date", provenance, dateRe)
	mergeString(&merged.Header.Address, sData.Header.Address, &pConf.Header.Address, sConf.Header.Address, "header.address", provenance, nil)
	mergeString(&merged.Header.TotalAmount, sData.Header.TotalAmount, &pConf.Header.TotalAmount, sConf.Header.TotalAmount, "header.total_amount", provenance, amountRe)

	// Merge line items: pick the array with more items
	if len(sData.LineItems) > len(pData.LineItems) {
		merged.LineItems = sData.LineItems
		provenance["line_items"] = "secondary"
		if len(sConf.LineItems) > 0 {
			pConf.LineItems = sConf.LineItems
		}
	} else {
		provenance["line_items"] = "primary"
	}

	mergeString(&merged.Notes, sData.Notes, &pConf.Notes, sConf.Notes, "notes", provenance, nil)

	mergedData, _ := json.Marshal(merged)
	mergedConf, _ := json.Marshal(pConf)

	return &port.ExtractOutput{
		StructuredData:   mergedData,
		ConfidenceScores: mergedConf,
		ModelUsed:        primary.ModelUsed,
		PromptUsed:       primary.PromptUsed,
		FieldProvenance:  provenance,
		SecondaryModel:   secondary.ModelUsed,
	}, nil
}

// mergeString implements the merge strategy for scalar string fields.
func mergeString(pVal *order.FlexString, sVal order.FlexString, pConf *float64, sConf float64, fieldPath string, provenance map[string]string, formatRe *regexp.Regexp) {
	if *pVal == sVal {
		// Agreement: boost confidence
		if *pConf < 1.0 {
			boosted := *pConf + (1.0-*pConf)*0.2
			if boosted > 1.0 {
				boosted = 1.0
			}
			*pConf = boosted
		}
		provenance[fieldPath] = "agree"
		return
	}

	if *pVal == "" && sVal != "" {
		*pVal = sVal
		*pConf = sConf
		provenance[fieldPath] = "secondary"
		return
	}

	if sVal == "" {
		provenance[fieldPath] = "primary"
		return
	}

	// Disagreement: prefer value matching expected format
	if formatRe != nil {
		pMatch := formatRe.MatchString(string(*pVal))
		sMatch := formatRe.MatchString(string(sVal))
		if sMatch && !pMatch {
			*pVal = sVal
			*pConf = sConf * 0.8
			provenance[fieldPath] = "secondary_format"
			return
		}
		if pMatch && !sMatch {
			*pConf *= 0.8
			provenance[fieldPath] = "primary_format"
			return
		}
	}

	// Both disagree, keep primary but reduce confidence
	*pConf *= 0.6
	provenance[fieldPath] = "disagreement"
}
