package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/photoprint/internal/cleanup"
	"github.com/fpang/photoprint/internal/config"
	"github.com/fpang/photoprint/internal/imaging"
	"github.com/fpang/photoprint/internal/logging"
	"github.com/fpang/photoprint/internal/order"
	"github.com/fpang/photoprint/internal/pipeline"
	"github.com/fpang/photoprint/internal/printapi"
)

// CLI flags
var (
	quantityFlag  int
	productFlag   string
	storeFlag     string
	couponFlag    string
	findStoreFlag bool
	verboseFlag   bool
)

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "photoprint [path]",
	Short: "Send photos to a Walgreens store for printing",
	Long: `Photoprint submits a photo, or a folder of photos, to a Walgreens store
as a print order.

Every image is validated locally (format, filename, readability) before
anything is uploaded, so a bad batch never produces a half-paid order.
Valid images are uploaded and submitted as a single order; the order
number and pickup details are printed on success.

Examples:
  photoprint ./vacation-photos
  photoprint beach.jpg --quantity 3
  photoprint ./photos --find-store --coupon SUMMER25
  photoprint products
  photoprint status 1234567890`,
	Version: "1.0.0",
	Args:    cobra.MaximumNArgs(1),
	Run:     runSubmit,
}

func init() {
	rootCmd.Flags().IntVarP(&quantityFlag, "quantity", "q", 1, "Number of prints per photo")
	rootCmd.Flags().StringVarP(&productFlag, "product", "p", "", "Print product ID (default is 4x6 prints)")
	rootCmd.Flags().StringVarP(&storeFlag, "store", "s", "", "Walgreens store number for pickup")
	rootCmd.Flags().StringVar(&couponFlag, "coupon", "", "Coupon code to apply to the order")
	rootCmd.Flags().BoolVar(&findStoreFlag, "find-store", false, "Search for the nearest store before submitting")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	// Registered by hand so --version keeps the -V shorthand; -v belongs
	// to --verbose.
	rootCmd.Flags().BoolP("version", "V", false, "Show version information")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runSubmit is the main order flow called by Cobra.
func runSubmit(cmd *cobra.Command, args []string) {
	logging.Init()
	if verboseFlag {
		logging.SetVerbose()
	}

	if quantityFlag < 1 {
		log.Fatal().Int("quantity", quantityFlag).Msg("Quantity must be at least 1")
	}

	cfg := loadOrSetupConfig()

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		path = promptForPath()
	}

	// Cancelling with Ctrl-C aborts the in-flight request through the
	// context; staged files are released by the pipeline before it
	// returns.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := printapi.NewClient(printapi.Credentials{APIKey: cfg.APIKey, AffiliateID: cfg.AffiliateID})

	logging.NewStartupLogger("photoprint").
		Endpoint("photo_api", client.BaseURL()).
		Feature("store_search", findStoreFlag).
		Feature("coupon", couponFlag != "").
		Config("config_source", cfg.Source).
		Config("log_level", logging.EnvOrDefault(logging.EnvLogLevel, "info")).
		Log()

	p := &pipeline.Pipeline{
		Client:      client,
		Coupons:     client,
		Cleanup:     cleanup.New(),
		AffiliateID: cfg.AffiliateID,
		Limits:      limitsFromConfig(cfg),
		Opts: order.Options{
			Customer: printapi.Customer{
				FirstName: cfg.Customer.FirstName,
				LastName:  cfg.Customer.LastName,
				Phone:     cfg.Customer.Phone,
				Email:     cfg.Customer.Email,
			},
			Store:      pickupStore(cfg),
			ProductID:  productFlag,
			Quantity:   quantityFlag,
			CouponCode: couponFlag,
		},
	}
	if findStoreFlag {
		if cfg.Location == nil {
			log.Fatal().Msg("Store search needs a location in the config file. Add a location block with latitude and longitude")
		}
		p.ResolveStore = storeResolver(client, cfg)
	}

	displayOrderHeader(path)

	res, err := p.Run(ctx, path)
	if err != nil {
		exitWithError(err)
	}

	renderResult(res)
	os.Exit(res.ExitCode())
}

// loadOrSetupConfig loads the config file, walking the user through
// first-time setup when none exists yet.
func loadOrSetupConfig() *config.Config {
	cfg, err := config.Load()
	if err == nil {
		return cfg
	}
	if errors.Is(err, config.ErrNotFound) {
		cfg, err = config.Setup(os.Stdin)
		if err != nil {
			log.Fatal().Err(err).Msg("Setup failed")
		}
		return cfg
	}
	log.Fatal().Err(err).Msg("Failed to load configuration")
	return nil
}

// initClient prepares a subcommand run: logging, config, API client, and
// an interrupt-aware context.
func initClient() (context.Context, context.CancelFunc, *printapi.Client, *config.Config) {
	logging.Init()
	if verboseFlag {
		logging.SetVerbose()
	}

	cfg := loadOrSetupConfig()
	client := printapi.NewClient(printapi.Credentials{APIKey: cfg.APIKey, AffiliateID: cfg.AffiliateID})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx, stop, client, cfg
}

// promptForPath prompts for the photo file or folder to print. Returns
// the current directory if the user enters nothing.
func promptForPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	fmt.Printf("Photo file or folder [%s]: ", cwd)

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read input, using current directory")
		return cwd
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return cwd
	}

	return input
}

// pickupStore resolves the store the order is addressed to before any
// store search runs: the --store flag wins, then the config default.
func pickupStore(cfg *config.Config) *config.Store {
	if storeFlag != "" {
		return &config.Store{StoreNum: storeFlag}
	}
	return cfg.DefaultStore
}

// storeResolver returns the store lookup the pipeline runs once images
// have passed validation. The found store is saved as the new default.
func storeResolver(client *printapi.Client, cfg *config.Config) func(context.Context) (*config.Store, error) {
	return func(ctx context.Context) (*config.Store, error) {
		productID := productFlag
		if productID == "" {
			productID = order.DefaultProductID
		}

		stores, err := client.FindStores(ctx, cfg.Location.Latitude, cfg.Location.Longitude,
			[]printapi.ProductRef{{ProductID: productID, Qty: "1"}})
		if err != nil {
			return nil, err
		}
		if len(stores) == 0 {
			return nil, errors.New("no stores found near the configured location")
		}

		nearest := stores[0]
		fmt.Printf("📍 Nearest store: Walgreens #%s, %s, %s (%s %s)\n",
			nearest.StoreNum, nearest.Street, nearest.City, nearest.Distance, nearest.DistanceUnit)

		store := config.Store{
			StoreNum:     nearest.StoreNum,
			PromiseTime:  nearest.PromiseTime,
			Address:      fmt.Sprintf("%s, %s, %s %s", nearest.Street, nearest.City, nearest.State, nearest.Zip),
			Phone:        nearest.Phone,
			Distance:     nearest.Distance,
			DistanceUnit: nearest.DistanceUnit,
		}
		if err := cfg.UpdateDefaultStore(store); err != nil {
			log.Warn().Err(err).Msg("Could not save the store to the config file")
		}
		return &store, nil
	}
}

// limitsFromConfig translates the optional config limits block. A zero
// value disables that limit.
func limitsFromConfig(cfg *config.Config) imaging.Limits {
	if cfg.Limits == nil {
		return imaging.Limits{}
	}
	l := imaging.Limits{
		MaxWidth:  cfg.Limits.MaxWidth,
		MaxHeight: cfg.Limits.MaxHeight,
	}
	if cfg.Limits.MaxFileSizeMB > 0 {
		l.MaxBytes = cfg.Limits.MaxFileSizeMB * 1024 * 1024
	}
	return l
}

// exitWithError prints a user-facing message for a fatal error and exits.
func exitWithError(err error) {
	if errors.Is(err, context.Canceled) {
		fmt.Println()
		fmt.Println("Order cancelled")
		os.Exit(1)
	}

	var apiErr *printapi.APIError
	if errors.As(err, &apiErr) {
		fmt.Println()
		fmt.Printf("❌ %s\n", apiErr.Message)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("❌ Error: %s\n", err)
	os.Exit(1)
}
