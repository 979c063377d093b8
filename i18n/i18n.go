// Package i18n holds the display strings for the supported UI languages.
package i18n

import "strings"

// Language selects the UI strings and the language directive sent to the model
type Language string

const (
	Arabic  Language = "ar"
	English Language = "en"
)

// DefaultLanguage is used when no language is configured
const DefaultLanguage = Arabic

// Parse maps a user supplied language tag to a supported Language.
// Unknown tags resolve to DefaultLanguage.
func Parse(tag string) Language {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "en", "english", "en-us", "en-gb":
		return English
	case "ar", "arabic", "ar-sa", "ar-eg":
		return Arabic
	default:
		return DefaultLanguage
	}
}

// Name returns the English name of the language, as used in model prompts
func (l Language) Name() string {
	if l == Arabic {
		return "Arabic"
	}
	return "English"
}

// Toggle returns the other supported language
func (l Language) Toggle() Language {
	if l == Arabic {
		return English
	}
	return Arabic
}

// IsRTL reports whether the language is written right to left
func (l Language) IsRTL() bool {
	return l == Arabic
}

// Translation is the full set of display strings for one language
type Translation struct {
	AppName               string
	Welcome               string
	WelcomeBody           string
	AskAnything           string
	ExplainFiles          string
	ExplainFilesBody      string
	VideoLecture          string
	VideoLectureTitle     string
	VideoLectureBody      string
	Settings              string
	Placeholder           string
	UploadAssets          string
	GenerateVideo         string
	Language              string
	SelectKey             string
	BillingInfo           string
	BillingBody           string
	UniversityLectureMode string
	Processing            string
	GeneratingVideo       string
	DownloadVideo         string
	NewLecture            string
	Retry                 string
	TeacherName           string
	You                   string
	APIKeyStatus          string
	APIKeyMissing         string
	UpdateKey             string
	MaxFilesHint          string
	Online                string
	ToggleLanguage        string
	DocumentUploaded      string
	AnalysisTitle         string
	ErrorTitle            string
	ChatError             string
	GenerationFailed      string
	UnexpectedError       string
	ServiceError          string
	KeyRejected           string
	Cancelled             string
	Saved                 string
}

var translations = map[Language]Translation{
	Arabic: {
		AppName:               "انداري",
		Welcome:               "مرحباً بك في انداري",
		WelcomeBody:           "أنا معلمك الشخصي المدعم بالذكاء الاصطناعي. اسألني عن أي معضلة علمية أو أدبية وسأشرحها لك ببساطة.",
		AskAnything:           "اسأل أي شيء",
		ExplainFiles:          "شرح الملفات",
		ExplainFilesBody:      "ارفع ملفاتك الدراسية وسأقوم بتفكيك محتواها وشرح كل تفصيلة فيها بأدق صورة.",
		VideoLecture:          "محاضرة فيديو",
		VideoLectureTitle:     "حول ملفاتك إلى محاضرة فيديو",
		VideoLectureBody:      "ارفع صور السبورة، صفحات الدفتر، أو حتى ملفات PDF وسأقوم بإنتاج فيديو شرح متكامل.",
		Settings:              "الإعدادات",
		Placeholder:           "اكتب سؤالك هنا...",
		UploadAssets:          "ارفع ملفاتك الدراسية",
		GenerateVideo:         "إنتاج محاضرة الفيديو",
		Language:              "اللغة",
		SelectKey:             "مفتاح API",
		BillingInfo:           "الفوترة",
		BillingBody:           "إدارة تفاصيل الدفع: https://ai.google.dev/gemini-api/docs/billing",
		UniversityLectureMode: "وضع المحاضرة الجامعية",
		Processing:            "جاري تحليل المواد الدراسية...",
		GeneratingVideo:       "جاري إنتاج الفيديو، قد يستغرق ذلك بضع دقائق...",
		DownloadVideo:         "تحميل الفيديو",
		NewLecture:            "إنشاء محاضرة جديدة",
		Retry:                 "إعادة المحاولة",
		TeacherName:           "البروفيسور انداري",
		You:                   "أنت",
		APIKeyStatus:          "تم اختيار المفتاح",
		APIKeyMissing:         "لم يتم اختيار مفتاح",
		UpdateKey:             "تحديث المفتاح",
		MaxFilesHint:          "الحد الأقصى 3 ملفات (صور أو PDF)",
		Online:                "متصل ومستعد للتعليم",
		ToggleLanguage:        "English",
		DocumentUploaded:      "تم رفع المستند",
		AnalysisTitle:         "تحليل المحاضرة والنص الكامل",
		ErrorTitle:            "عذراً، حدث خطأ تقني",
		ChatError:             "عذراً، حدث خطأ أثناء معالجة طلبك.",
		GenerationFailed:      "فشل إنتاج الفيديو. يرجى المحاولة لاحقاً.",
		UnexpectedError:       "حدث خطأ غير متوقع.",
		ServiceError:          "تعذر على خدمة الذكاء الاصطناعي إكمال الطلب. يرجى المحاولة مرة أخرى.",
		KeyRejected:           "تم رفض مفتاح API. اختر مفتاحاً من مشروع مدفوع ثم أعد المحاولة.",
		Cancelled:             "تم إلغاء العملية.",
		Saved:                 "تم الحفظ في",
	},
	English: {
		AppName:               "Andary",
		Welcome:               "Welcome to Andary",
		WelcomeBody:           "I am your AI-powered personal tutor. Ask me about any scientific or literary problem and I will explain it simply.",
		AskAnything:           "Ask Anything",
		ExplainFiles:          "Explain Files",
		ExplainFilesBody:      "Upload your study files and I will break down their content and explain every detail.",
		VideoLecture:          "Video Lecture",
		VideoLectureTitle:     "Turn your files into a video lecture",
		VideoLectureBody:      "Upload photos of the board, notebook pages, or even PDF files and I will produce a complete explainer video.",
		Settings:              "Settings",
		Placeholder:           "Type your question here...",
		UploadAssets:          "Upload your study materials",
		GenerateVideo:         "Generate Video Lecture",
		Language:              "Language",
		SelectKey:             "API Key",
		BillingInfo:           "Billing",
		BillingBody:           "Manage billing details: https://ai.google.dev/gemini-api/docs/billing",
		UniversityLectureMode: "University Lecture Mode",
		Processing:            "Analyzing your study materials...",
		GeneratingVideo:       "Generating the video, this may take a few minutes...",
		DownloadVideo:         "Download Video",
		NewLecture:            "Create a new lecture",
		Retry:                 "Try again",
		TeacherName:           "Professor Andary",
		You:                   "You",
		APIKeyStatus:          "Key selected",
		APIKeyMissing:         "No key selected",
		UpdateKey:             "Update Key",
		MaxFilesHint:          "Maximum 3 files (images or PDF)",
		Online:                "Professor Online",
		ToggleLanguage:        "العربية",
		DocumentUploaded:      "Document Uploaded",
		AnalysisTitle:         "Lecture analysis and full script",
		ErrorTitle:            "Sorry, a technical error occurred",
		ChatError:             "Sorry, an error occurred while processing your request.",
		GenerationFailed:      "Video generation failed. Please try again later.",
		UnexpectedError:       "An unexpected error occurred.",
		ServiceError:          "The AI service could not complete the request. Please try again.",
		KeyRejected:           "The API key was rejected. Select a key from a paid project and try again.",
		Cancelled:             "The operation was cancelled.",
		Saved:                 "Saved to",
	},
}

// For returns the translation table for a language, falling back to the default
func For(l Language) Translation {
	if t, ok := translations[l]; ok {
		return t
	}
	return translations[DefaultLanguage]
}
