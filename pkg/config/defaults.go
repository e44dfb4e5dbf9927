package config

import "time"

// Defaults returns the built-in configuration. User YAML overrides these
// field by field.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr: ":3001",
		},
		Data: DataConfig{
			GraphFile:     "data/graph.json",
			LecturersFile: "data/lecturers.json",
			SubjectsFile:  "data/subjects.json",
			TermFile:      "scrapers/currentTerm.txt",
			ChatPrompt:    "prompts/chatbot_prompt.txt",
			ExtractPrompt: "prompts/description_process_prompt.txt",
			ChromaDir:     "./chromadb",
		},
		Scrape: ScrapeConfig{
			CourseInterval:   Duration(5 * time.Minute),
			LecturerInterval: Duration(6 * time.Hour),
			BannerURL:        "https://generalssb-prod.ec.njit.edu/BannerExtensibility/internalPb/virtualDomains.stuRegCrseSchedSectionInfo",
			BannerReferer:    "https://generalssb-prod.ec.njit.edu/BannerExtensibility/customPage/page/stuRegCrseSched",
			CatalogURL:       "https://catalog.njit.edu",
			RMPProxyURL:      "https://backend-server-black-phi.vercel.app",
		},
		LLM: LLMConfig{
			ChatModel:    "gemini-2.5-flash",
			ExtractModel: "gemini-2.5-pro",
		},
		Semantic: SemanticConfig{
			Collection:      "njit_courses",
			CrossEncoderURL: "http://localhost:8082",
		},
	}
}
