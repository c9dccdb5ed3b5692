package stylist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/shuamamine/outfit-backend/internal/history"
)

// Service orchestrates one styling request: AI collaborators first, then the
// assembler persists whatever they produced.
type Service struct {
	analyzer      Analyzer
	generator     Generator
	assembler     *Assembler
	referencePath string
	logger        *zap.Logger
}

// NewService creates a new stylist service
func NewService(analyzer Analyzer, generator Generator, assembler *Assembler, referencePath string, logger *zap.Logger) *Service {
	return &Service{
		analyzer:      analyzer,
		generator:     generator,
		assembler:     assembler,
		referencePath: referencePath,
		logger:        logger,
	}
}

// GenerateStyles runs the full-analysis flow: analyze the apparel, render one
// outfit per occasion (failures independent per occasion), persist everything
// as one session. An analysis failure aborts before anything is persisted.
func (s *Service) GenerateStyles(ctx context.Context, image []byte) (*history.SessionDetail, error) {
	analysis, err := s.analyzer.Analyze(ctx, image)
	if err != nil {
		return nil, err
	}

	var outcomes []OccasionOutcome
	if analysis.ApparelPresent {
		reference := s.referenceImage(image)
		for _, occasion := range Occasions {
			outcomes = append(outcomes, s.generateOccasion(ctx, occasion, analysis, reference, image))
		}
	}

	return s.assembler.AssembleFullSession(ctx, image, analysis, outcomes)
}

func (s *Service) generateOccasion(ctx context.Context, occasion string, analysis *AnalysisResult, reference, input []byte) OccasionOutcome {
	description := analysis.Suggestions[occasion]
	if description == "" {
		return OccasionOutcome{
			Occasion: occasion,
			Err:      NewGenerationError(occasion, "no outfit suggestion produced", nil),
		}
	}

	img, err := s.generator.Generate(ctx, occasionPrompt(occasion, description, analysis.Details), reference, input)
	if err != nil {
		s.logger.Warn("outfit generation failed",
			zap.String("occasion", occasion),
			zap.Error(err))
		return OccasionOutcome{Occasion: occasion, Err: err}
	}

	return OccasionOutcome{Occasion: occasion, Image: img}
}

// GenerateSingleOutfit runs the single-outfit flow: render one user-described
// outfit and persist it as a single-outfit session. A generation failure is
// still persisted (empty path plus reason).
func (s *Service) GenerateSingleOutfit(ctx context.Context, image []byte, description, category string) (*history.SessionDetail, error) {
	if category == "" {
		category = OccasionCustom
	}

	reference := s.referenceImage(image)
	img, err := s.generator.Generate(ctx, singleOutfitPrompt(category, description), reference, image)
	if err != nil {
		s.logger.Warn("outfit generation failed",
			zap.String("category", category),
			zap.Error(err))
	}

	return s.assembler.AssembleSingleOutfit(ctx, image, OccasionOutcome{
		Occasion: category,
		Image:    img,
		Err:      err,
	})
}

// SaveReferenceTemplate replaces the reference style image all generated
// outfits are matched against.
func (s *Service) SaveReferenceTemplate(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.referencePath), 0o755); err != nil {
		return fmt.Errorf("failed to create assets directory: %w", err)
	}
	if err := os.WriteFile(s.referencePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to save reference template: %w", err)
	}
	return nil
}

// referenceImage loads the reference template, falling back to the input
// image when no template has been uploaded yet.
func (s *Service) referenceImage(fallback []byte) []byte {
	data, err := os.ReadFile(s.referencePath)
	if err != nil {
		s.logger.Debug("reference template unavailable, using input image as style reference",
			zap.String("path", s.referencePath))
		return fallback
	}
	return data
}
