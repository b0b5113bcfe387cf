package supabase

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"jewelry-studio-backend/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// DB exposes the pool for the migrator.
func (d *DatabaseClient) DB() *sql.DB {
	return d.db
}

func (d *DatabaseClient) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

const designColumns = `
	id, name, language, font, size, karat, style, metal_type,
	jewelry_type, design_style, reference_url, reference_storage_id, text_reference_storage_id,
	status, progress_note, analysis, error_message,
	product_images, on_body_images, selected_variation, regenerations_remaining,
	video_slots, generation, featured, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDesign(row rowScanner) (*models.Design, error) {
	var (
		design                                 models.Design
		jewelryType, designStyle, referenceURL sql.NullString
		referenceStorageID, textReferenceID    sql.NullString
		analysis, productImages, onBodyImages  []byte
		videoSlots                             []byte
	)

	err := row.Scan(
		&design.ID, &design.Name, &design.Language, &design.Font, &design.Size, &design.Karat,
		&design.Style, &design.MetalType,
		&jewelryType, &designStyle, &referenceURL, &referenceStorageID, &textReferenceID,
		&design.Status, &design.ProgressNote, &analysis, &design.ErrorMessage,
		&productImages, &onBodyImages, &design.SelectedVariation, &design.RegenerationsRemaining,
		&videoSlots, &design.Generation, &design.Featured, &design.CreatedAt, &design.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	design.JewelryType = jewelryType.String
	design.DesignStyle = designStyle.String
	design.ReferenceURL = referenceURL.String
	design.ReferenceStorageID = referenceStorageID.String
	design.TextReferenceStorageID = textReferenceID.String

	if len(analysis) > 0 && string(analysis) != "null" {
		design.Analysis = &models.Analysis{}
		if err := json.Unmarshal(analysis, design.Analysis); err != nil {
			return nil, fmt.Errorf("failed to decode analysis: %w", err)
		}
	}
	if err := json.Unmarshal(productImages, &design.ProductImages); err != nil {
		return nil, fmt.Errorf("failed to decode product images: %w", err)
	}
	if err := json.Unmarshal(onBodyImages, &design.OnBodyImages); err != nil {
		return nil, fmt.Errorf("failed to decode on-body images: %w", err)
	}
	if err := json.Unmarshal(videoSlots, &design.VideoSlots); err != nil {
		return nil, fmt.Errorf("failed to decode video slots: %w", err)
	}

	return &design, nil
}

func (d *DatabaseClient) CreateDesign(ctx context.Context, spec models.DesignSpec) (*models.Design, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO designs (
			name, language, font, size, karat, style, metal_type,
			jewelry_type, design_style, reference_url, reference_storage_id, text_reference_storage_id,
			status, regenerations_remaining
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''),
			$13, $14)
		RETURNING `+designColumns,
		spec.Name, spec.Language, spec.Font, spec.Size, spec.Karat, spec.Style, spec.MetalType,
		spec.JewelryType, spec.DesignStyle, spec.ReferenceURL, spec.ReferenceStorageID, spec.TextReferenceStorageID,
		models.StatusGenerating, models.MaxRegenerations,
	)

	design, err := scanDesign(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create design: %w", err)
	}
	return design, nil
}

func (d *DatabaseClient) GetDesign(ctx context.Context, id uuid.UUID) (*models.Design, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+designColumns+` FROM designs WHERE id = $1`, id)

	design, err := scanDesign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrDesignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get design: %w", err)
	}
	return design, nil
}

// execGuarded runs a write conditioned on the run generation. Zero affected
// rows means a newer run owns the design.
func (d *DatabaseClient) execGuarded(ctx context.Context, query string, args ...any) error {
	result, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrStaleGeneration
	}
	return nil
}

func (d *DatabaseClient) UpdateDesignStatus(ctx context.Context, id uuid.UUID, generation int, status models.DesignStatus, note string) error {
	err := d.execGuarded(ctx, `
		UPDATE designs SET status = $3, progress_note = NULLIF($4, '')
		WHERE id = $1 AND generation = $2
	`, id, generation, status, note)
	if err != nil && !errors.Is(err, models.ErrStaleGeneration) {
		return fmt.Errorf("failed to update design status: %w", err)
	}
	return err
}

// SetReferenceStorageID records the blob id of a fetched reference image. It
// never overwrites an existing id.
func (d *DatabaseClient) SetReferenceStorageID(ctx context.Context, id uuid.UUID, storageID string) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE designs SET reference_storage_id = $2
		WHERE id = $1 AND reference_storage_id IS NULL
	`, id, storageID)
	if err != nil {
		return fmt.Errorf("failed to set reference storage id: %w", err)
	}
	return nil
}

// StartEngraving stores the analysis snapshot and moves the design to
// engraving.
func (d *DatabaseClient) StartEngraving(ctx context.Context, id uuid.UUID, generation int, analysis models.Analysis, note string) error {
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	err = d.execGuarded(ctx, `
		UPDATE designs SET status = $3, analysis = $4, progress_note = $5
		WHERE id = $1 AND generation = $2
	`, id, generation, models.StatusEngraving, analysisJSON, note)
	if err != nil && !errors.Is(err, models.ErrStaleGeneration) {
		return fmt.Errorf("failed to start engraving: %w", err)
	}
	return err
}

// AppendImage adds one image to the end of a list in a single statement, so
// concurrent appends from the same run never lose each other.
func (d *DatabaseClient) AppendImage(ctx context.Context, id uuid.UUID, generation int, kind models.ImageKind, img models.StoredImage, note string) error {
	var column string
	switch kind {
	case models.ImageProduct:
		column = "product_images"
	case models.ImageOnBody:
		column = "on_body_images"
	default:
		return fmt.Errorf("unknown image kind %q", kind)
	}

	err := d.execGuarded(ctx, `
		UPDATE designs
		SET `+column+` = `+column+` || jsonb_build_array(jsonb_build_object('storage_id', $3::text, 'variation', $4::int)),
			progress_note = $5
		WHERE id = $1 AND generation = $2
	`, id, generation, img.StorageID, img.Variation, note)
	if err != nil && !errors.Is(err, models.ErrStaleGeneration) {
		return fmt.Errorf("failed to append %s image: %w", kind, err)
	}
	return err
}

func (d *DatabaseClient) CompleteDesign(ctx context.Context, id uuid.UUID, generation int) error {
	err := d.execGuarded(ctx, `
		UPDATE designs SET status = $3, progress_note = NULL, error_message = NULL
		WHERE id = $1 AND generation = $2
	`, id, generation, models.StatusCompleted)
	if err != nil && !errors.Is(err, models.ErrStaleGeneration) {
		return fmt.Errorf("failed to complete design: %w", err)
	}
	return err
}

func (d *DatabaseClient) FailDesign(ctx context.Context, id uuid.UUID, generation int, message string) error {
	err := d.execGuarded(ctx, `
		UPDATE designs SET status = $3, progress_note = NULL, error_message = $4
		WHERE id = $1 AND generation = $2
	`, id, generation, models.StatusFailed, message)
	if err != nil && !errors.Is(err, models.ErrStaleGeneration) {
		return fmt.Errorf("failed to mark design failed: %w", err)
	}
	return err
}

func (d *DatabaseClient) SetVideoSlot(ctx context.Context, id uuid.UUID, generation, index int, slot models.VideoSlot) error {
	if index < 0 || index >= models.VariationCount {
		return fmt.Errorf("video slot %d out of range", index)
	}
	slotJSON, err := json.Marshal(slot)
	if err != nil {
		return fmt.Errorf("failed to encode video slot: %w", err)
	}

	err = d.execGuarded(ctx, `
		UPDATE designs SET video_slots = jsonb_set(video_slots, ARRAY[$3::text], $4::jsonb)
		WHERE id = $1 AND generation = $2
	`, id, generation, index, slotJSON)
	if err != nil && !errors.Is(err, models.ErrStaleGeneration) {
		return fmt.Errorf("failed to set video slot: %w", err)
	}
	return err
}

// Regenerate resets the design for a new run and returns the new run
// generation. The counter check and decrement happen in one statement.
func (d *DatabaseClient) Regenerate(ctx context.Context, id uuid.UUID) (int, error) {
	slotsJSON, err := json.Marshal(models.EmptyVideoSlots())
	if err != nil {
		return 0, fmt.Errorf("failed to encode video slots: %w", err)
	}

	var generation int
	err = d.db.QueryRowContext(ctx, `
		UPDATE designs SET
			status = $2,
			progress_note = NULL,
			analysis = NULL,
			error_message = NULL,
			product_images = '[]'::jsonb,
			on_body_images = '[]'::jsonb,
			selected_variation = NULL,
			video_slots = $3::jsonb,
			regenerations_remaining = regenerations_remaining - 1,
			generation = generation + 1
		WHERE id = $1 AND regenerations_remaining > 0
		RETURNING generation
	`, id, models.StatusGenerating, slotsJSON).Scan(&generation)
	if err == nil {
		return generation, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to regenerate design: %w", err)
	}

	var exists bool
	if err := d.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM designs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check design: %w", err)
	}
	if !exists {
		return 0, models.ErrDesignNotFound
	}
	return 0, models.ErrNoRegenerationsLeft
}

func (d *DatabaseClient) SelectVariation(ctx context.Context, id uuid.UUID, variation int) error {
	result, err := d.db.ExecContext(ctx, `UPDATE designs SET selected_variation = $2 WHERE id = $1`, id, variation)
	if err != nil {
		return fmt.Errorf("failed to select variation: %w", err)
	}
	return notFoundIfNone(result, models.ErrDesignNotFound)
}

func (d *DatabaseClient) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	result, err := d.db.ExecContext(ctx, `UPDATE designs SET featured = $2 WHERE id = $1`, id, featured)
	if err != nil {
		return fmt.Errorf("failed to update featured flag: %w", err)
	}
	return notFoundIfNone(result, models.ErrDesignNotFound)
}

func (d *DatabaseClient) ListFeaturedDesigns(ctx context.Context, limit int) ([]models.Design, error) {
	return d.listDesigns(ctx, `
		SELECT `+designColumns+` FROM designs
		WHERE featured
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
}

func (d *DatabaseClient) ListRecentCompletedDesigns(ctx context.Context, limit int) ([]models.Design, error) {
	return d.listDesigns(ctx, `
		SELECT `+designColumns+` FROM designs
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, models.StatusCompleted, limit)
}

func (d *DatabaseClient) listDesigns(ctx context.Context, query string, args ...any) ([]models.Design, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	defer rows.Close()

	var designs []models.Design
	for rows.Next() {
		design, err := scanDesign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan design: %w", err)
		}
		designs = append(designs, *design)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}

	return designs, nil
}

func notFoundIfNone(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
