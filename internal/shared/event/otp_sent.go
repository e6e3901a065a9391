package event

const OTPSentDestination string = "auth_otp_sent"

type OTPSentMessage struct {
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number"`
}
