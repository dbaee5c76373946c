package email

import "fmt"

const welcomeEmailSubject = "You're on the waitlist!"
const welcomeEmailTemplate = `
Hey there!

Thanks for signing up — you're on the waitlist. We'll email you at this
address as soon as your spot opens up.

In the meantime you can follow progress at %[1]s.

If you didn't sign up, you can safely ignore this email.
`

func welcomeEmailText(website string) string {
	return fmt.Sprintf(welcomeEmailTemplate, website)
}
