package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
)

// DrugParserService turns one raw inventory string into structured fields.
// Pure and stateless: no external lookups, never fails. Unparseable fields
// degrade to their zero values rather than failing the record.
type DrugParserService struct {
	labPattern  *regexp.Regexp
	dosePattern *regexp.Regexp
	qtyPattern  *regexp.Regexp
	residualX   *regexp.Regexp
}

// parseStage consumes its match from the working text and returns the
// reduced string. Stages run in a fixed order (lab, dose, quantity):
// each later pattern assumes the earlier spans are already removed, so
// reordering changes results on ambiguous strings.
type parseStage func(s *DrugParserService, text string, p *entities.ParsedProduct) string

var parseStages = []parseStage{
	(*DrugParserService).extractLab,
	(*DrugParserService).extractDose,
	(*DrugParserService).extractQuantity,
}

// NewDrugParserService creates a parser with the extraction grammar compiled.
func NewDrugParserService() *DrugParserService {
	return &DrugParserService{
		// LAB. CHILE, LABORATORIO MINTLAB, LAB SOPHIA (trailing free text)
		labPattern: regexp.MustCompile(`(?:LAB\.|LABORATORIO|LAB)\s+(.*)$`),
		// 500 MG, 500MG, 0,5 %, 1000 UI
		dosePattern: regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(MG|G|GR|MCG|ML|%|UI|GRS)`),
		// X20 COMP, ENV 30, 20 COMP, 100 ML
		qtyPattern: regexp.MustCompile(`(?:X\s*|ENV\s*|^|\s)(\d+)\s*(COMP|CAP|SOBRE|ML|AMPOLLA|FRASCO|UNID|UND|DOSIS|G)`),
		residualX:  regexp.MustCompile(`\bX\d+\b`),
	}
}

// Parse extracts dose, quantity and laboratory from a raw product string
// and leaves the remainder as the clean name. Only the first dose match is
// taken even when the source encodes a multi-ingredient combination: the
// clean name keeps every ingredient word and downstream classification
// operates on it.
func (s *DrugParserService) Parse(text string) *entities.ParsedProduct {
	parsed := &entities.ParsedProduct{
		Lab: entities.UnknownLab,
	}

	working := strings.TrimSpace(strings.ToUpper(text))
	parsed.Original = working
	if working == "" {
		return parsed
	}

	for _, stage := range parseStages {
		working = stage(s, working, parsed)
	}

	parsed.CleanName = s.cleanup(working)
	return parsed
}

func (s *DrugParserService) extractLab(text string, p *entities.ParsedProduct) string {
	loc := s.labPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return text
	}

	p.Lab = strings.TrimSpace(text[loc[2]:loc[3]])
	return text[:loc[0]] + text[loc[1]:]
}

func (s *DrugParserService) extractDose(text string, p *entities.ParsedProduct) string {
	loc := s.dosePattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return text
	}

	raw := strings.ReplaceAll(text[loc[2]:loc[3]], ",", ".")
	if value, err := decimal.NewFromString(raw); err == nil {
		p.DoseValue = &value
		p.DoseUnit = text[loc[4]:loc[5]]
	}

	// Replace with a space to avoid gluing neighboring tokens together.
	return text[:loc[0]] + " " + text[loc[1]:]
}

func (s *DrugParserService) extractQuantity(text string, p *entities.ParsedProduct) string {
	loc := s.qtyPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return text
	}

	if value, err := strconv.Atoi(text[loc[2]:loc[3]]); err == nil {
		p.QtyValue = &value
		p.QtyUnit = text[loc[4]:loc[5]]
	}

	return text[:loc[0]] + " " + text[loc[1]:]
}

// cleanup collapses whitespace and strips a residual X<digits> token the
// quantity stage may have missed.
func (s *DrugParserService) cleanup(text string) string {
	text = s.residualX.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
