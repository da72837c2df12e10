package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"coursefetch/cache"
	"coursefetch/client"
	"coursefetch/internal"
	"coursefetch/utils"
)

var (
	baseURL     string
	cacheDir    string
	proxyURL    string
	timeoutSecs int
	quiet       bool
	debug       bool
	logLevel    string
	logFile     string
	accessToken string
	userID      string
	userType    string
	config      *internal.Config
)

var rootCmd = &cobra.Command{
	Use:     "coursefetch",
	Short:   "Browse and cache course content for offline use",
	Version: "v1.0.0",
	Long: `coursefetch is a client for a remote course-content API. It signs in,
browses the class/course/lecture hierarchy and downloads lecture assets
into a local cache for offline use.

Examples:
  coursefetch login -u teacher01
  coursefetch classes --token <TOKEN> --user <USER_ID>
  coursefetch courses <CLASS_ID> --token <TOKEN> --user <USER_ID>
  coursefetch download <LECTURE_ID> --token <TOKEN> --user <USER_ID>

Environment Variables:
  COURSEFETCH_BASE_URL    API base URL
  COURSEFETCH_TIMEOUT     HTTP timeout in seconds
  COURSEFETCH_CACHE_DIR   Asset cache root directory
  COURSEFETCH_PROXY       Proxy URL
  COURSEFETCH_TOKEN       Access token for authenticated commands
  COURSEFETCH_USER_ID     User id for authenticated commands`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfiguration(); err != nil {
			return fmt.Errorf("configuration error: %v", err)
		}

		if err := internal.InitLogger(config); err != nil {
			return fmt.Errorf("failed to initialize logger: %v", err)
		}

		internal.LogDebug("configuration loaded: base=%s, timeout=%d, cache=%s",
			config.BaseURL, config.TimeoutSeconds, config.CacheDir)

		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&baseURL, "base-url", "", "API base URL (overrides COURSEFETCH_BASE_URL)")
	flags.StringVar(&cacheDir, "cache-dir", "", "Asset cache root directory")
	flags.StringVar(&proxyURL, "proxy", "", "Proxy URL (http, https or socks5)")
	flags.IntVar(&timeoutSecs, "timeout", 0, "HTTP timeout in seconds")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFile, "log-file", "", "Log to file instead of stderr")
	flags.StringVar(&accessToken, "token", "", "Access token (overrides COURSEFETCH_TOKEN)")
	flags.StringVar(&userID, "user", "", "User id (overrides COURSEFETCH_USER_ID)")
	flags.StringVar(&userType, "user-type", "", "User type reported by login")

	loginCmd.Flags().StringP("username", "u", "", "Account username")
	loginCmd.Flags().StringP("password", "p", "", "Account password (prompted when omitted)")
	downloadCmd.Flags().String("ref", "", "Asset reference to download (defaults to the lecture's first resource)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(lecturesCmd)
	rootCmd.AddCommand(resourceCmd)
	rootCmd.AddCommand(downloadCmd)
}

// loadConfiguration builds the effective config from defaults, .env,
// environment and flags, in that order.
func loadConfiguration() error {
	internal.LoadDotEnv()

	config = internal.DefaultConfig()
	config.LoadFromEnv()

	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if cacheDir != "" {
		config.CacheDir = cacheDir
	}
	if proxyURL != "" {
		config.ProxyURL = proxyURL
	}
	if timeoutSecs > 0 {
		config.TimeoutSeconds = timeoutSecs
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if logFile != "" {
		config.LogFile = logFile
	}
	config.EnableDebug = debug
	config.QuietMode = quiet

	return config.ValidateConfig()
}

// sessionCredentials assembles the externally supplied session identity
// from flags and environment. The CLI never stores it.
func sessionCredentials() internal.Credentials {
	token := accessToken
	if token == "" {
		token = os.Getenv("COURSEFETCH_TOKEN")
	}
	user := userID
	if user == "" {
		user = os.Getenv("COURSEFETCH_USER_ID")
	}
	return internal.Credentials{
		AccessToken: token,
		UserID:      user,
		UserType:    userType,
		DeviceID:    internal.DeviceID(),
	}
}

func newClient() (*client.Client, error) {
	return client.NewClient(config)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and print the session credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		if username == "" {
			return fmt.Errorf("username is required")
		}
		if password == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read password: %v", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		api, err := newClient()
		if err != nil {
			return err
		}

		creds, err := api.Login(cmd.Context(), username, password, internal.DeviceID())
		if err != nil {
			return err
		}

		fmt.Printf("Logged in as %s (%s)\n", creds.UserID, creds.UserType)
		fmt.Printf("COURSEFETCH_TOKEN=%s\n", creds.AccessToken)
		fmt.Printf("COURSEFETCH_USER_ID=%s\n", creds.UserID)
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the account profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newClient()
		if err != nil {
			return err
		}

		profile, err := api.Profile(cmd.Context(), sessionCredentials())
		if err != nil {
			return err
		}

		fmt.Printf("Id:        %s\n", profile.ID)
		fmt.Printf("Username:  %s\n", profile.UserName)
		fmt.Printf("Full name: %s\n", profile.FullName)
		fmt.Printf("Email:     %s\n", profile.Email)
		fmt.Printf("Type:      %s\n", profile.UserType)
		if birthday := client.FormatDate(profile.Birthday); birthday != "" {
			fmt.Printf("Birthday:  %s\n", birthday)
		}
		if created := client.FormatDate(profile.CreatedAt); created != "" {
			fmt.Printf("Created:   %s\n", created)
		}
		return nil
	},
}

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List classes",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newClient()
		if err != nil {
			return err
		}

		classes, err := api.Classes(cmd.Context(), sessionCredentials())
		if err != nil {
			return err
		}

		client.SortClasses(classes)
		for _, class := range classes {
			fmt.Printf("%s\t%s\n", class.ID, class.Name)
		}
		return nil
	},
}

var coursesCmd = &cobra.Command{
	Use:   "courses <CLASS_ID>",
	Short: "List the courses of a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newClient()
		if err != nil {
			return err
		}

		courses, err := api.Courses(cmd.Context(), sessionCredentials(), args[0])
		if err != nil {
			return err
		}

		client.SortCourses(courses)
		for _, course := range courses {
			fmt.Printf("%s\t%s\n", course.ID, course.Name)
		}
		return nil
	},
}

var lecturesCmd = &cobra.Command{
	Use:   "lectures <COURSE_ID>",
	Short: "List the lectures of a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newClient()
		if err != nil {
			return err
		}

		lectures, err := api.Lectures(cmd.Context(), sessionCredentials(), args[0])
		if err != nil {
			return err
		}

		assets := cache.NewAssetCache(config.CacheDir)
		client.SortLectures(lectures)
		for _, lecture := range lectures {
			marker := " "
			if assets.Has(cache.NamespaceLecture, lecture.ID) {
				marker = "*"
			}
			fmt.Printf("%s %s\t%s\n", marker, lecture.ID, lecture.Title)
		}
		return nil
	},
}

var resourceCmd = &cobra.Command{
	Use:   "resource <LECTURE_ID>",
	Short: "Print the first resource URL of a lecture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newClient()
		if err != nil {
			return err
		}

		resourceURL, err := api.LectureResource(cmd.Context(), sessionCredentials(), args[0])
		if err != nil {
			return err
		}

		fmt.Println(resourceURL)
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <LECTURE_ID>",
	Short: "Download a lecture asset into the local cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("expected exactly one lecture id")
		}
		lectureID := args[0]

		api, err := newClient()
		if err != nil {
			return err
		}

		assets := cache.NewAssetCache(config.CacheDir)
		destPath, err := assets.Path(cache.NamespaceLecture, lectureID)
		if err != nil {
			return err
		}

		if assets.Has(cache.NamespaceLecture, lectureID) {
			fmt.Printf("Already cached: %s\n", destPath)
			return nil
		}

		downloader := cache.NewDownloader(api.HTTP())

		ref, _ := cmd.Flags().GetString("ref")
		if strings.TrimSpace(ref) == "" {
			ref, err = api.LectureResource(cmd.Context(), sessionCredentials(), lectureID)
			if err != nil {
				if internal.IsType(err, internal.ErrResourceNotFound) {
					// Downloaded state stays existence-keyed even for
					// lectures with no remote asset.
					if err := downloader.EmptyMarker(destPath); err != nil {
						return err
					}
					fmt.Printf("No remote asset; marked cached: %s\n", destPath)
					return nil
				}
				return err
			}
		}

		tracker := utils.NewProgressTracker(config.QuietMode)
		if err := downloader.Download(cmd.Context(), ref, destPath, tracker.Callback()); err != nil {
			return err
		}
		tracker.Finish()

		fmt.Printf("Saved to: %s\n", destPath)
		return nil
	},
}
