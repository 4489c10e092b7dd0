package templates

// The built-in simulation lures. Bodies are Liquid; every template links
// through {{ tracking_url }} so the pipeline sees the click.
var builtins = []Template{
	{
		ID:      "password-reset",
		Name:    "Password Reset",
		Subject: "Action Required: Password Reset Request",
		Body: `<div>
  <p>Hello,</p>
  <p>We received a request to reset the password for your account. If you did not make this request, please ignore this email.</p>
  <p>To reset your password, please click the link below:</p>
  <p><a href="{{ tracking_url }}" style="color: #2563EB; text-decoration: underline;">Reset Your Password</a></p>
  <p>This link will expire in 24 hours.</p>
  <p>Thank you,<br/>The Security Team</p>
</div>`,
	},
	{
		ID:      "prize-alert",
		Name:    "Prize Alert",
		Subject: "Congratulations! You've Won a Prize!",
		Body: `<div>
  <p>Dear Valued Customer,</p>
  <p>You have been selected as a winner in our monthly giveaway! To claim your prize, you must verify your account details immediately.</p>
  <p>Click the link below to claim your reward:</p>
  <p><a href="{{ tracking_url }}" style="color: #2563EB; text-decoration: underline;">Claim Your Prize Now</a></p>
  <p>Hurry, this is a limited-time offer!</p>
  <p>Sincerely,<br/>The Rewards Team</p>
</div>`,
	},
	{
		ID:      "account-alert",
		Name:    "Account Alert",
		Subject: "Security Alert: Unusual Sign-In Detected",
		Body: `<div>
  <p>We detected an unusual sign-in to the account for {{ participant_email }} from a new device. If this was not you, please secure your account immediately.</p>
  <p>If you don't recognize this activity, please click here to review your account and secure it:</p>
  <p><a href="{{ tracking_url }}" style="color: #2563EB; text-decoration: underline;">Review Sign-In Activity</a></p>
  <p>Thank you,<br/>Account Security Team</p>
</div>`,
	},
	{
		ID:      "document-share",
		Name:    "Document Share",
		Subject: "A document has been shared with you",
		Body: `<div>
  <p>Hello,</p>
  <p>A document titled "Q4 Financial Projections" has been shared with you. Please review it at your earliest convenience.</p>
  <p>You can view the document by clicking the link below:</p>
  <p><a href="{{ tracking_url }}" style="color: #2563EB; text-decoration: underline;">Open Document</a></p>
  <p>This document is confidential.</p>
  <p>Best regards,<br/>Your Team</p>
</div>`,
	},
}
