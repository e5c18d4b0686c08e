package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder for image.Decode
	"log"
	"strings"
	"text/template"
	"time"

	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"

	"github.com/LewF-Dev/local-help-platform/internal/config"
	"github.com/LewF-Dev/local-help-platform/internal/email"
	"github.com/LewF-Dev/local-help-platform/internal/services"
	"github.com/LewF-Dev/local-help-platform/internal/storage"
)

// TaskType defines the type of a background task.
const (
	TypeEmailDelivery      = "email:deliver"
	TypeImageProcess       = "image:process"
	TypeSubscriptionExpire = "subscription:expire"
)

// Queue names.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueImages   = "images"
)

// RedisOpt builds the asynq connection settings from an existing Redis client.
func RedisOpt(rdb *redis.Client) asynq.RedisClientOpt {
	opts := rdb.Options()
	return asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}
}

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	return asynq.NewClient(RedisOpt(rdb))
}

// --- Task Server (Processing tasks) ---

// PhotoRecorder stores a processed photo key on a provider.
type PhotoRecorder interface {
	SetPhotoKey(ctx context.Context, providerID, key string) error
}

// SubscriptionExpirer cancels lapsed subscriptions.
type SubscriptionExpirer interface {
	ExpireLapsed(ctx context.Context) (int, error)
}

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	cfg                  *config.Config
	emailSender          email.Sender
	storage              storage.IS3Storage
	photos               PhotoRecorder
	subscriptions        SubscriptionExpirer
	emailTemplateService services.IEmailTemplateService
}

func NewTaskProcessor(
	cfg *config.Config,
	emailSender email.Sender,
	objects storage.IS3Storage,
	photos PhotoRecorder,
	subscriptions SubscriptionExpirer,
	emailTemplateService services.IEmailTemplateService,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:                  cfg,
		emailSender:          emailSender,
		storage:              objects,
		photos:               photos,
		subscriptions:        subscriptions,
		emailTemplateService: emailTemplateService,
	}
}

// SetupServer configures an Asynq server and the handlers for the requested
// worker roles. It returns nil when neither role is requested.
func SetupServer(rdb *redis.Client, processor *TaskProcessor, isImageWorker bool, isBgWorker bool) (*asynq.Server, *asynq.ServeMux) {
	if !isBgWorker && !isImageWorker {
		log.Println("Running in API mode, no task server started.")
		return nil, nil
	}

	queues := map[string]int{}
	mux := asynq.NewServeMux()

	if isBgWorker {
		queues[QueueCritical] = 6
		queues[QueueDefault] = 3
		mux.HandleFunc(TypeEmailDelivery, processor.HandleEmailDeliveryTask)
		mux.HandleFunc(TypeSubscriptionExpire, processor.HandleSubscriptionExpireTask)
		log.Println("Registered background task handlers (email, subscriptions).")
	}

	if isImageWorker {
		queues[QueueImages] = 5
		mux.HandleFunc(TypeImageProcess, processor.HandleImageProcessTask)
		log.Println("Registered image processing task handlers.")
	}

	srv := asynq.NewServer(
		RedisOpt(rdb),
		asynq.Config{
			Queues: queues,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)
	return srv, mux
}

// SetupScheduler registers the periodic subscription sweep.
func SetupScheduler(rdb *redis.Client, cronspec string) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(RedisOpt(rdb), &asynq.SchedulerOpts{
		Location: time.UTC,
	})
	entryID, err := scheduler.Register(cronspec, asynq.NewTask(TypeSubscriptionExpire, nil),
		asynq.Queue(QueueDefault), asynq.MaxRetry(3), asynq.Timeout(5*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("failed to schedule %s with %q: %w", TypeSubscriptionExpire, cronspec, err)
	}
	log.Printf("Scheduled %s (%s) as entry %s", TypeSubscriptionExpire, cronspec, entryID)
	return scheduler, nil
}

// --- Task Handlers ---

// EmailTaskPayload is the payload of TypeEmailDelivery.
type EmailTaskPayload struct {
	To         string                 `json:"to"`
	TemplateID string                 `json:"template_id"`
	Locale     string                 `json:"locale,omitempty"` // Optional locale
	Data       map[string]interface{} `json:"data"`
}

func render(name, src string, data map[string]interface{}) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// headerSafe keeps rendered values from starting new header lines.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// HandleEmailDeliveryTask renders a template and sends it.
func (p *TaskProcessor) HandleEmailDeliveryTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email task payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.To == "" {
		return fmt.Errorf("email task has no recipient: %w", asynq.SkipRetry)
	}

	log.Printf("Sending email task: To=%s, Template=%s", payload.To, payload.TemplateID)

	locale := payload.Locale
	if locale == "" {
		locale = services.DefaultLocale
	}

	tmpl, err := p.emailTemplateService.GetTemplate(ctx, payload.TemplateID, locale)
	if err != nil {
		log.Printf("Error getting email template %s/%s: %v", payload.TemplateID, locale, err)
		return fmt.Errorf("email template not found: %w", asynq.SkipRetry)
	}

	subject, err := render(payload.TemplateID+".subject", tmpl.Subject, payload.Data)
	if err != nil {
		return fmt.Errorf("failed to render subject of %s: %v: %w", payload.TemplateID, err, asynq.SkipRetry)
	}
	body, err := render(payload.TemplateID+".body", tmpl.Body, payload.Data)
	if err != nil {
		return fmt.Errorf("failed to render body of %s: %v: %w", payload.TemplateID, err, asynq.SkipRetry)
	}
	subject = headerSafe(subject)

	fromAddress := p.cfg.SmtpFromAddress
	if fromAddress == "" {
		fromAddress = "noreply@example.com"
		log.Printf("Warning: SmtpFromAddress not configured, using fallback %s for email to %s", fromAddress, payload.To)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To: %s\r\n", headerSafe(payload.To)))
	sb.WriteString(fmt.Sprintf("From: %s\r\n", fromAddress))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString(fmt.Sprintf("%s: %s\r\n", email.TemplateHeader, headerSafe(payload.TemplateID)))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n"))
	sb.WriteString("\r\n")

	if err := p.emailSender.Send(ctx, []string{payload.To}, subject, []byte(sb.String())); err != nil {
		log.Printf("Email sending failed (will retry): %v", err)
		return err
	}

	log.Printf("Email task processed successfully: To=%s, Template=%s", payload.To, payload.TemplateID)
	return nil
}

// ImageTaskPayload is the payload of TypeImageProcess.
type ImageTaskPayload struct {
	S3Key      string `json:"s3_key"`
	ProviderID string `json:"provider_id"`
}

// HandleImageProcessTask shrinks an uploaded provider photo to the configured
// bounds and records it on the profile.
func (p *TaskProcessor) HandleImageProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ImageTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal image task payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.storage == nil {
		return fmt.Errorf("photo storage is not configured: %w", asynq.SkipRetry)
	}
	if !storage.OwnsKey(payload.ProviderID, payload.S3Key) {
		log.Printf("Image task key %s does not belong to provider %s", payload.S3Key, payload.ProviderID)
		return fmt.Errorf("invalid image task payload: %w", asynq.SkipRetry)
	}

	log.Printf("Processing image task: S3Key=%s, ProviderID=%s", payload.S3Key, payload.ProviderID)

	imgData, contentType, err := p.storage.GetObject(ctx, payload.S3Key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			log.Printf("S3 object %s not found, likely upload failed or key incorrect.", payload.S3Key)
			return fmt.Errorf("s3 object not found: %w", asynq.SkipRetry)
		}
		return fmt.Errorf("failed to download image: %w", err)
	}

	maxSizeBytes := int64(p.cfg.ImageMaxSizeMB) * 1024 * 1024
	if int64(len(imgData)) > maxSizeBytes {
		log.Printf("Image %s exceeds max size (%d > %d bytes). Skipping.", payload.S3Key, len(imgData), maxSizeBytes)
		return fmt.Errorf("image exceeds max size: %w", asynq.SkipRetry)
	}

	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		log.Printf("Error decoding image for key %s: %v", payload.S3Key, err)
		return fmt.Errorf("unsupported image format or corrupt image: %w", asynq.SkipRetry)
	}
	log.Printf("Decoded image %s, format: %s, size: %dx%d", payload.S3Key, format, img.Bounds().Dx(), img.Bounds().Dy())

	maxDim := uint(p.cfg.ImageMaxDimension)
	if uint(img.Bounds().Dx()) > maxDim || uint(img.Bounds().Dy()) > maxDim {
		resized := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
			return fmt.Errorf("failed to re-encode resized image: %w", err)
		}
		if int64(buf.Len()) > maxSizeBytes {
			log.Printf("Resized image %s still exceeds max size (%d > %d bytes). Skipping.", payload.S3Key, buf.Len(), maxSizeBytes)
			return fmt.Errorf("resized image still exceeds max size: %w", asynq.SkipRetry)
		}
		if err := p.storage.PutObject(ctx, payload.S3Key, buf.Bytes(), "image/jpeg"); err != nil {
			return fmt.Errorf("failed to upload processed image: %w", err)
		}
		log.Printf("Resized image %s to %dx%d (was %s)", payload.S3Key, resized.Bounds().Dx(), resized.Bounds().Dy(), contentType)
	}

	if err := p.photos.SetPhotoKey(ctx, payload.ProviderID, payload.S3Key); err != nil {
		if services.IsValidation(err) || errors.Is(err, services.ErrNotFound) {
			return fmt.Errorf("failed to record photo: %v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to record photo on provider %s: %w", payload.ProviderID, err)
	}

	log.Printf("Image task processed successfully: Key=%s, ProviderID=%s", payload.S3Key, payload.ProviderID)
	return nil
}

// HandleSubscriptionExpireTask cancels subscriptions whose period has ended.
func (p *TaskProcessor) HandleSubscriptionExpireTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Starting subscription expiry task...")
	n, err := p.subscriptions.ExpireLapsed(ctx)
	if err != nil {
		log.Printf("Subscription expiry finished with errors after expiring %d: %v", n, err)
		return err
	}
	log.Printf("Subscription expiry task finished. Expired %d subscriptions.", n)
	return nil
}
