package service

import (
	"context"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// SESClient is the part of the SES v2 API the email service uses
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     SESClient
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	logger     *zap.Logger
}

// NewEmailService creates a new email service. It is disabled when
// fromEmail is empty.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, logger *zap.Logger) (*EmailService, error) {
	if fromEmail == "" {
		logger.Info("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{logger: logger}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info("email service enabled",
		zap.String("from", fromEmail),
		zap.String("region", awsRegion))

	return NewEmailServiceWithClient(sesv2.NewFromConfig(cfg), fromEmail, fromName, appBaseURL, logger), nil
}

// NewEmailServiceWithClient creates an enabled email service around client
func NewEmailServiceWithClient(client SESClient, fromEmail, fromName, appBaseURL string, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		logger:     logger,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s != nil && s.enabled
}

// SendWelcomeEmail greets a newly registered student
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.IsEnabled() {
		s.logger.Debug("skipping welcome email (service disabled)", zap.String("to", toEmail))
		return nil
	}

	signInURL := s.appBaseURL + "/sections/signin"
	subject := "Welcome to SmartLearn!"
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #1f2937; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4f46e5; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
		.content { background-color: #f9fafb; padding: 30px; border-radius: 0 0 8px 8px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #4f46e5; color: white; text-decoration: none; border-radius: 6px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #6b7280; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>Welcome aboard</h1></div>
		<div class="content">
			<p>Hi %s,</p>
			<p>Your SmartLearn student account is ready. Sign in to see your dashboard, generate adaptive practice and quiz yourself with the personal tutor.</p>
			<p style="text-align: center;"><a href="%s" class="button">Sign in</a></p>
		</div>
		<div class="footer"><p>This is an automated email from SmartLearn. Please do not reply.</p></div>
	</div>
</body>
</html>`, html.EscapeString(toName), html.EscapeString(signInURL))

	textBody := fmt.Sprintf(`Hi %s,

Your SmartLearn student account is ready. Sign in to see your dashboard,
generate adaptive practice and quiz yourself with the personal tutor.

Sign in: %s

---
This is an automated email from SmartLearn. Please do not reply.
`, toName, signInURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send email", zap.String("to", toEmail), zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent",
		zap.String("to", toEmail),
		zap.String("subject", subject),
		zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}
